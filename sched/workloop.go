package sched

import (
	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/priority"
)

// findNextUnitOfWork implements spec.md §4.2: GC empty roots, pick the
// top root, clone its current tree into a fresh work-in-progress fiber
// at that root's pending priority, and update nextPriorityLevel to
// match. Returns nil (and sets nextPriorityLevel to NoWork) if no root
// has pending work.
func (s *Scheduler) findNextUnitOfWork() *fiber.Fiber {
	root := s.registry.PickHighestPriorityRoot()
	if root == nil {
		s.nextPriorityLevel = priority.NoWork
		return nil
	}
	level := root.Current.PendingWorkPriority
	s.nextPriorityLevel = level
	wip := s.reconciler.CloneFiber(root.Current, level)
	s.log.WithPhase("find-next").Debugf("picked root fiber=%s level=%s", wip.DebugID, level)
	return wip
}

// performUnitOfWork implements spec.md §4.2: invoke beginWork; if it
// yields a child, that child is the next unit; otherwise hand off to
// completeUnitOfWork. Errors raised by the reconciler are expected to
// reach here as panics of a plain error value (see recoverUnitOfWork);
// this method itself does not recover — that's the caller's job, so the
// panic can unwind through whatever partial work this unit left behind.
func (s *Scheduler) performUnitOfWork(f *fiber.Fiber, ignoreUnmountErrors bool) *fiber.Fiber {
	current := f.Alternate
	s.log.WithFiber(f.DebugID).WithPhase("begin").Debugf("beginWork tag=%d priority=%s", f.Tag, s.nextPriorityLevel)

	if child := s.reconciler.BeginWork(current, f, s.nextPriorityLevel); child != nil {
		return child
	}
	return s.completeUnitOfWork(f, ignoreUnmountErrors)
}

// completeUnitOfWork implements spec.md §4.2's ascend-and-splice loop,
// running the commit engine and error pipeline once it reaches the root.
func (s *Scheduler) completeUnitOfWork(f *fiber.Fiber, ignoreUnmountErrors bool) *fiber.Fiber {
	for {
		current := f.Alternate
		s.log.WithFiber(f.DebugID).WithPhase("complete").Debugf("completeWork tag=%d", f.Tag)

		if spawned := s.reconciler.CompleteWork(current, f); spawned != nil {
			return spawned
		}

		fiber.ResetWorkPriority(f)
		f.PendingProps = nil
		f.UpdateQueue = nil

		if f.Return != nil {
			fiber.SpliceChildEffects(f.Return, f)
		}

		if f.Sibling != nil {
			return f.Sibling
		}
		if f.Return != nil {
			f = f.Return
			continue
		}

		return s.finishRoot(f, ignoreUnmountErrors)
	}
}

// finishRoot handles completeUnitOfWork's terminal case: f has no
// sibling and no parent, so it is the HostContainer fiber for its root.
func (s *Scheduler) finishRoot(f *fiber.Fiber, ignoreUnmountErrors bool) *fiber.Fiber {
	root, ok := f.StateNode.(*fiber.FiberRoot)
	if !ok || root == nil {
		panic(InvariantError{Msg: "finishRoot: root fiber carries no FiberRoot state"})
	}
	if root.Current == f {
		panic(InvariantError{Msg: "finishRoot: attempted to commit the same tree twice"})
	}

	root.Current = f
	errs := s.commit(f, ignoreUnmountErrors)
	if len(errs) > 0 {
		if ignoreUnmountErrors {
			// Running under rerenderBoundary's recovery drive: hand these
			// back to the outer fixed-point loop via rerenderBoundary's
			// return value instead of re-entering handleErrors from inside
			// the error pipeline's own drive (spec.md §9).
			s.pendingCommitErrors = append(s.pendingCommitErrors, errs...)
		} else if uncaught := s.handleErrors(errs); uncaught != nil {
			panic(UncaughtError{Err: uncaught})
		}
	}
	return s.findNextUnitOfWork()
}

// recoverUnitOfWork runs performUnitOfWork, converting a panicked error
// value (the Go stand-in for a JS throw out of BeginWork/CompleteWork —
// see reconcile.Reconciler) into a returned error instead. InvariantError
// and UncaughtError are not user-code errors and are re-raised
// immediately: the former is always a programmer bug, the latter is the
// error pipeline's own signal that it already exhausted every boundary,
// unwinding out of a public entry point rather than something to re-trap.
func (s *Scheduler) recoverUnitOfWork(f *fiber.Fiber, ignoreUnmountErrors bool) (next *fiber.Fiber, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, isInvariant := r.(InvariantError); isInvariant {
			panic(r)
		}
		if _, isUncaught := r.(UncaughtError); isUncaught {
			// UncaughtError is the scheduler's own signal that the error
			// pipeline already ran to exhaustion with no boundary left
			// (finishRoot -> handleErrors); it is control flow unwinding a
			// public entry point, not a user-code error to re-trap.
			panic(r)
		}
		e, ok := r.(error)
		if !ok {
			panic(r)
		}
		err = e
	}()
	next = s.performUnitOfWork(f, ignoreUnmountErrors)
	return
}
