// Package timerhost adapts Go's standard timers into a host.Config, for
// embedding the reconciler in a server or CLI process rather than a
// browser. It plays the role the teacher's requestIdleCallback/
// requestAnimationFrame calls played in fiber/fiber.go, translated from a
// JS callback queue to time.AfterFunc.
package timerhost

import (
	"time"

	"github.com/wm3445/react/host"
)

const (
	defaultFrameBudget = 16 * time.Millisecond
	defaultIdleBudget  = 5 * time.Millisecond
)

// Host is a host.Config backed by time.AfterFunc. It has no concept of
// real screen refresh; animation callbacks simply fire after a fixed
// frame budget, which is the best a non-browser host can offer.
type Host struct {
	sync        bool
	frameBudget time.Duration
	idleBudget  time.Duration
}

// Option configures a Host at construction time.
type Option func(*Host)

// WithFrameBudget overrides the delay before an animation callback fires.
func WithFrameBudget(d time.Duration) Option {
	return func(h *Host) { h.frameBudget = d }
}

// WithIdleBudget overrides how much time a deferred callback is told it
// has once it fires.
func WithIdleBudget(d time.Duration) Option {
	return func(h *Host) { h.idleBudget = d }
}

// WithSyncScheduling makes UseSyncScheduling report true, matching a host
// that wants every update flushed immediately (e.g. a test harness or a
// server-side render with no concept of frames).
func WithSyncScheduling() Option {
	return func(h *Host) { h.sync = true }
}

// New returns a Host with the given options applied over sensible
// defaults (a 16ms animation frame budget, a 5ms idle budget per slice).
func New(opts ...Option) *Host {
	h := &Host{frameBudget: defaultFrameBudget, idleBudget: defaultIdleBudget}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) ScheduleAnimationCallback(cb func()) {
	time.AfterFunc(h.frameBudget, cb)
}

func (h *Host) ScheduleDeferredCallback(cb func(host.Deadline)) {
	time.AfterFunc(h.frameBudget, func() {
		cb(newDeadline(h.idleBudget))
	})
}

func (h *Host) UseSyncScheduling() bool {
	return h.sync
}

type deadline struct {
	until time.Time
}

func newDeadline(budget time.Duration) *deadline {
	return &deadline{until: time.Now().Add(budget)}
}

func (d *deadline) TimeRemaining() time.Duration {
	return time.Until(d.until)
}
