// Package host declares the host-config interface the scheduler consumes
// (spec.md §6.1). The scheduler is generic over it; concrete
// implementations live in host/timerhost (any Go process) and
// host/domhost (browser/WASM, build-tagged).
package host

import "time"

// Deadline reports remaining budget for the current deferred work slice.
type Deadline interface {
	// TimeRemaining returns how much time is left before the host wants
	// control back. It may go negative once overrun.
	TimeRemaining() time.Duration
}

// Config is the set of host-specific scheduling primitives the scheduler
// needs. It says nothing about how elements are created or mutated —
// that is the Reconciler's job (package reconcile); Config is purely
// about *when* the scheduler gets to run.
type Config interface {
	// ScheduleAnimationCallback requests that cb run on (or before) the
	// next animation-frame-equivalent boundary. Implementations must not
	// invoke cb synchronously.
	ScheduleAnimationCallback(cb func())

	// ScheduleDeferredCallback requests that cb run during the host's
	// next idle/deferred window, receiving a Deadline describing the
	// budget for that window. Implementations must not invoke cb
	// synchronously.
	ScheduleDeferredCallback(cb func(Deadline))

	// UseSyncScheduling reports whether the host wants synchronous work
	// performed immediately rather than batched (spec.md §4.3).
	UseSyncScheduling() bool
}
