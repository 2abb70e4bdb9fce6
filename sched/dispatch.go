package sched

import (
	"time"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/host"
	"github.com/wm3445/react/priority"
	"github.com/wm3445/react/reconcile"
)

// deferredYieldHeuristic is the minimum remaining budget the deferred
// entry point requires before starting another unit of work. Matches the
// "1" millisecond heuristic named in spec.md's scenario 2.
const deferredYieldHeuristic = 1 * time.Millisecond

// scheduleWorkAtPriority implements spec.md §4.3's routing: enqueue the
// root, apply the interruption rule, then dispatch to whichever entry
// point matches the priority just scheduled.
func (s *Scheduler) scheduleWorkAtPriority(root *fiber.FiberRoot, level priority.Level) {
	wasEmpty := s.registry.Empty()
	s.registry.Enqueue(root, level)

	if level <= s.nextPriorityLevel {
		s.nextUnitOfWork = nil
	}

	s.log.WithPhase("dispatch").Debugf("scheduling work level=%s registry_was_empty=%t", level, wasEmpty)

	switch {
	case level == priority.Sync:
		s.scheduleSynchronousWork(wasEmpty)
	case priority.AtMost(level, priority.Animation):
		s.scheduleAnimationWork()
	default:
		s.scheduleDeferredWork()
	}
}

// scheduleSynchronousWork performs immediately iff this was the first
// root scheduled into an otherwise-empty registry and the scheduler is
// not in a batched scope, or the host unconditionally wants synchronous
// scheduling (host.Config.UseSyncScheduling).
func (s *Scheduler) scheduleSynchronousWork(wasFirst bool) {
	if s.host.UseSyncScheduling() || (wasFirst && !s.batching) {
		s.performSynchronousWorkUnsafe()
	}
}

func (s *Scheduler) scheduleAnimationWork() {
	if s.animationCallbackScheduled {
		return
	}
	s.animationCallbackScheduled = true
	s.host.ScheduleAnimationCallback(func() {
		s.animationCallbackScheduled = false
		s.performAnimationWorkUnsafe()
	})
}

func (s *Scheduler) scheduleDeferredWork() {
	if s.deferredCallbackScheduled {
		return
	}
	s.deferredCallbackScheduled = true
	s.host.ScheduleDeferredCallback(func(d host.Deadline) {
		s.deferredCallbackScheduled = false
		s.performDeferredWorkUnsafe(d)
	})
}

func (s *Scheduler) ensureNextUnitOfWork() {
	if s.nextUnitOfWork == nil {
		s.nextUnitOfWork = s.findNextUnitOfWork()
	}
}

// performSynchronousWorkUnsafe continues while nextPriorityLevel ==
// Sync. On exhaustion with leftover work it reschedules via the
// animation or deferred entry point, matching whatever priority remains.
func (s *Scheduler) performSynchronousWorkUnsafe() {
	s.ensureNextUnitOfWork()
	for s.nextUnitOfWork != nil && s.nextPriorityLevel == priority.Sync {
		s.stepUnitOfWork(false)
	}
	s.rescheduleRemainingWork()
}

// performAnimationWorkUnsafe continues while nextPriorityLevel is at
// most Animation and there is work. On exhaustion with lower-priority
// work left over, it schedules a deferred callback.
func (s *Scheduler) performAnimationWorkUnsafe() {
	s.ensureNextUnitOfWork()
	for s.nextUnitOfWork != nil && priority.AtMost(s.nextPriorityLevel, priority.Animation) {
		s.stepUnitOfWork(false)
	}
	if s.nextUnitOfWork != nil && !priority.AtMost(s.nextPriorityLevel, priority.Animation) {
		s.scheduleDeferredWork()
	}
}

// performDeferredWorkUnsafe continues while the host deadline reports
// more than deferredYieldHeuristic remaining. On exhaustion with any
// leftover work it re-registers a deferred callback.
func (s *Scheduler) performDeferredWorkUnsafe(deadline host.Deadline) {
	s.ensureNextUnitOfWork()
	for s.nextUnitOfWork != nil && deadline.TimeRemaining() > deferredYieldHeuristic {
		s.stepUnitOfWork(false)
	}
	if s.nextUnitOfWork != nil {
		s.scheduleDeferredWork()
	}
}

// rescheduleRemainingWork is called once performSynchronousWorkUnsafe's
// loop exits (either exhausted or the priority dropped below Sync) to
// make sure any remaining work still gets a host callback registered.
func (s *Scheduler) rescheduleRemainingWork() {
	if s.nextUnitOfWork == nil {
		return
	}
	if priority.AtMost(s.nextPriorityLevel, priority.Animation) {
		s.scheduleAnimationWork()
		return
	}
	if priority.HasWork(s.nextPriorityLevel) {
		s.scheduleDeferredWork()
	}
}

// stepUnitOfWork performs one unit of work, routing a trapped error
// through the error pipeline and re-panicking UncaughtError if the
// pipeline exhausts with no boundary left.
func (s *Scheduler) stepUnitOfWork(ignoreUnmountErrors bool) {
	f := s.nextUnitOfWork
	next, err := s.recoverUnitOfWork(f, ignoreUnmountErrors)
	if err != nil {
		s.log.WithFiber(f.DebugID).WithPhase("dispatch").Warnf("unit of work threw: %v", err)
		s.nextUnitOfWork = nil
		trapped := s.reconciler.TrapError(f, err)
		if uncaught := s.handleErrors([]reconcile.TrappedError{trapped}); uncaught != nil {
			panic(UncaughtError{Err: uncaught})
		}
		return
	}
	s.nextUnitOfWork = next
}

// UncaughtError wraps the original error a work unit raised once the
// error pipeline establishes no ancestor boundary exists to catch it
// (spec.md §4.6 step 5). It is the one place this module mirrors a JS
// throw with a Go panic rather than an error return — see SPEC_FULL.md §7.
type UncaughtError struct {
	Err error
}

func (e UncaughtError) Error() string { return "sched: uncaught error: " + e.Err.Error() }
func (e UncaughtError) Unwrap() error { return e.Err }
