package sched_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wm3445/react/host"
	"github.com/wm3445/react/reconcile/htmlreconciler"
	"github.com/wm3445/react/reconcile/htmlreconciler/domstub"
	"github.com/wm3445/react/sched"
)

// fakeHost is a host.Config test double: it records rather than invokes
// scheduled callbacks, letting a test step the work loop by hand instead
// of waiting on real timers.
type fakeHost struct {
	syncScheduling bool
	animationCbs   []func()
	deferredCbs    []func(host.Deadline)
}

func (h *fakeHost) ScheduleAnimationCallback(cb func()) {
	h.animationCbs = append(h.animationCbs, cb)
}

func (h *fakeHost) ScheduleDeferredCallback(cb func(host.Deadline)) {
	h.deferredCbs = append(h.deferredCbs, cb)
}

func (h *fakeHost) UseSyncScheduling() bool { return h.syncScheduling }

// countdownDeadline reports countdown[0] on the first TimeRemaining call,
// countdown[1] on the second, and so on, holding the last entry for any
// call past the end — enough to simulate a deferred slice that starts
// with budget and then runs out mid-tree.
type countdownDeadline struct {
	countdown []time.Duration
	calls     int
}

func (d *countdownDeadline) TimeRemaining() time.Duration {
	idx := d.calls
	if idx >= len(d.countdown) {
		idx = len(d.countdown) - 1
	}
	d.calls++
	return d.countdown[idx]
}

func newScheduler(t *testing.T, h host.Config) (*sched.Scheduler, *htmlreconciler.Reconciler) {
	t.Helper()
	r := htmlreconciler.New()
	s := sched.New(h, r)
	r.Bind(s)
	return s, r
}

// Scenario 1 (spec.md §8): a single root scheduled synchronously flushes
// immediately, with no animation or deferred callback registered.
func TestSyncUpdateFlushesImmediately(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	el := htmlreconciler.H("div", htmlreconciler.Props{"id": "a"}, htmlreconciler.Txt("hello"))

	sched.SyncUpdates(s, func() any {
		r.Mount(root, el)
		return nil
	})

	assert.Contains(t, container.Render(0), "hello")
	assert.Empty(t, h.animationCbs)
	assert.Empty(t, h.deferredCbs)
}

// Scenario 2 (spec.md §8): a deferred update whose deadline runs out
// mid-tree yields control back to the host, which must re-register a
// deferred callback to finish the remaining work.
func TestDeferredUpdateYieldsOnDeadlineExhaustion(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	el := htmlreconciler.H("div", nil,
		htmlreconciler.H("span", nil, htmlreconciler.Txt("one")),
		htmlreconciler.H("span", nil, htmlreconciler.Txt("two")),
		htmlreconciler.H("span", nil, htmlreconciler.Txt("three")),
	)

	r.Mount(root, el) // default priority context is Low: deferred lane.
	require.Len(t, h.deferredCbs, 1)
	assert.Empty(t, container.Children, "nothing commits until the tree finishes")

	first := h.deferredCbs[0]
	h.deferredCbs = nil
	first(&countdownDeadline{countdown: []time.Duration{10 * time.Millisecond, 0}})

	require.Len(t, h.deferredCbs, 1, "unfinished work must re-register a deferred callback")
	assert.Empty(t, container.Children, "still nothing committed after a partial slice")

	second := h.deferredCbs[0]
	second(&countdownDeadline{countdown: []time.Duration{10 * time.Millisecond}})

	assert.Contains(t, container.Render(0), "one")
	assert.Contains(t, container.Render(0), "two")
	assert.Contains(t, container.Render(0), "three")
}

// Scenario 3 (spec.md §8, §5 ordering guarantees): higher-priority work
// scheduled while a lower-priority pass is mid-flight invalidates that
// pass's cursor — the final committed tree reflects only the later,
// higher-priority render, and the interrupted pass leaves no trace.
func TestSyncScheduleInterruptsInFlightDeferredWork(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	staleTree := htmlreconciler.H("div", nil,
		htmlreconciler.H("span", nil, htmlreconciler.Txt("stale-one")),
		htmlreconciler.H("span", nil, htmlreconciler.Txt("stale-two")),
	)
	r.Mount(root, staleTree)
	require.Len(t, h.deferredCbs, 1)

	firstSlice := h.deferredCbs[0]
	h.deferredCbs = nil
	firstSlice(&countdownDeadline{countdown: []time.Duration{10 * time.Millisecond, 0}})
	require.Len(t, h.deferredCbs, 1, "partial work still pending, awaiting a second slice")
	assert.Empty(t, container.Children, "stale pass never committed")

	h.syncScheduling = true
	freshTree := htmlreconciler.H("p", nil, htmlreconciler.Txt("fresh"))
	sched.SyncUpdates(s, func() any {
		r.Mount(root, freshTree)
		return nil
	})

	out := container.Render(0)
	assert.Contains(t, out, "fresh")
	assert.NotContains(t, out, "stale-one")
	assert.NotContains(t, out, "stale-two")

	// Firing the stale callback that was captured before the interrupt
	// must be a harmless no-op: there is nothing left to do.
	stale := h.deferredCbs[0]
	assert.NotPanics(t, func() {
		stale(&countdownDeadline{countdown: []time.Duration{10 * time.Millisecond}})
	})
	assert.Equal(t, out, container.Render(0))
}

// Scenario 4 (spec.md §8): updating two sibling host children in the
// same render bubbles both children's effects into their parent's
// single effect list and commits them together, atomically.
func TestEffectListBubblesSiblingUpdatesTogether(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	build := func(left, right string) *htmlreconciler.Element {
		return htmlreconciler.H("section", nil,
			htmlreconciler.H("b", nil, htmlreconciler.Txt(left)),
			htmlreconciler.H("c", nil, htmlreconciler.Txt(right)),
		)
	}

	sched.SyncUpdates(s, func() any { r.Mount(root, build("one", "two")); return nil })
	out := container.Render(0)
	require.Contains(t, out, "one")
	require.Contains(t, out, "two")

	sched.SyncUpdates(s, func() any { r.Mount(root, build("ONE", "TWO")); return nil })
	out = container.Render(0)
	assert.Contains(t, out, "ONE")
	assert.Contains(t, out, "TWO")
	assert.NotContains(t, out, "one")
	assert.NotContains(t, out, "two")
}

// Scenario 5 (spec.md §8): an update under an error boundary that throws
// during beginWork re-reconciles the boundary's subtree synchronously;
// no exception escapes, and the failing node never reaches the committed
// tree — only the boundary's fallback does.
func TestErrorBoundaryRecoversFromThrowingChild(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	var triggerFailure func(bool)
	boundaryRender := func(props htmlreconciler.Props, hks *htmlreconciler.Hooks, caught error) *htmlreconciler.Element {
		bad, setBad := htmlreconciler.UseState(hks, false)
		triggerFailure = setBad
		if caught != nil {
			return htmlreconciler.Txt("recovered: " + caught.Error())
		}
		if bad {
			// An invalid tag name; CompleteWork rejects it and panics.
			return htmlreconciler.H("bad tag!", nil)
		}
		return htmlreconciler.Txt("steady state")
	}
	el := htmlreconciler.ErrorBoundary(boundaryRender, nil)

	sched.SyncUpdates(s, func() any { r.Mount(root, el); return nil })
	require.Contains(t, container.Render(0), "steady state")

	require.NotPanics(t, func() {
		sched.SyncUpdates(s, func() any { triggerFailure(true); return nil })
	})

	out := container.Render(0)
	assert.Contains(t, out, "recovered")
	assert.NotContains(t, out, "steady state")

	// The registry still works normally for unrelated roots afterward.
	otherContainer, err := domstub.NewElement("root")
	require.NoError(t, err)
	otherRoot := s.NewRoot(otherContainer)
	sched.SyncUpdates(s, func() any {
		r.Mount(otherRoot, htmlreconciler.Txt("unaffected"))
		return nil
	})
	assert.Contains(t, otherContainer.Render(0), "unaffected")
}

// Scenario 6 (spec.md §8): a throw with no ancestor boundary surfaces to
// the caller as sched.UncaughtError, and a later, unrelated root still
// schedules and commits normally afterward.
func TestUncaughtErrorSurfacesAndRegistryRecovers(t *testing.T) {
	h := &fakeHost{}
	s, r := newScheduler(t, h)

	container, err := domstub.NewElement("root")
	require.NoError(t, err)
	root := s.NewRoot(container)

	el := htmlreconciler.H("bad tag!", nil)

	var caught any
	func() {
		defer func() { caught = recover() }()
		sched.SyncUpdates(s, func() any { r.Mount(root, el); return nil })
	}()

	require.NotNil(t, caught, "an uncaught error must panic out of the synchronous flush")
	uncaught, ok := caught.(sched.UncaughtError)
	require.True(t, ok, "panic value must be sched.UncaughtError, got %T", caught)
	assert.Error(t, uncaught.Err)

	freshContainer, err := domstub.NewElement("root")
	require.NoError(t, err)
	freshRoot := s.NewRoot(freshContainer)
	sched.SyncUpdates(s, func() any {
		r.Mount(freshRoot, htmlreconciler.Txt("fine"))
		return nil
	})
	assert.Contains(t, freshContainer.Render(0), "fine")
}
