package sched

import (
	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/reconcile"
)

// commit implements the commit engine (spec.md §4.5): an atomic,
// uninterruptible two-pass traversal of finishedWork's effect list.
// Errors raised during either pass are collected, never propagated
// synchronously, so the whole traversal always completes; the caller is
// responsible for feeding the aggregate to the error pipeline afterward.
func (s *Scheduler) commit(finishedWork *fiber.Fiber, ignoreUnmountingErrors bool) []reconcile.TrappedError {
	log := s.log.WithPhase("commit").WithFiber(finishedWork.DebugID)
	var aggregated []reconcile.TrappedError

	log.Debugf("mutation pass starting")
	for f := finishedWork.FirstEffect; f != nil; f = f.NextEffect {
		switch {
		case f.EffectTag.Has(fiber.Deletion):
			errs := s.reconciler.CommitDeletion(f, ignoreUnmountingErrors)
			if !ignoreUnmountingErrors {
				aggregated = append(aggregated, errs...)
			}
		case f.EffectTag.Has(fiber.Placement) && f.EffectTag.Has(fiber.Update):
			s.reconciler.CommitInsertion(f)
			f.EffectTag &^= fiber.Placement
			s.reconciler.CommitWork(f.Alternate, f)
		case f.EffectTag.Has(fiber.Placement):
			s.reconciler.CommitInsertion(f)
			f.EffectTag &^= fiber.Placement
		case f.EffectTag.Has(fiber.Update):
			s.reconciler.CommitWork(f.Alternate, f)
		}
	}

	log.Debugf("lifecycle pass starting")
	f := finishedWork.FirstEffect
	for f != nil {
		next := f.NextEffect
		if f.EffectTag.Any(fiber.Update | fiber.Callback) {
			if trapped := s.reconciler.CommitLifeCycles(f.Alternate, f); trapped != nil {
				aggregated = append(aggregated, *trapped)
			}
		}
		// Unlink as we traverse: spec.md §4.5 requires no stale
		// nextEffect references survive past the lifecycle pass (§8
		// invariant 4).
		f.NextEffect = nil
		f = next
	}
	finishedWork.FirstEffect = nil
	finishedWork.LastEffect = nil

	// The root is not on its own effect list; apply its own effect here.
	if finishedWork.EffectTag != fiber.NoEffect {
		s.reconciler.CommitWork(finishedWork.Alternate, finishedWork)
		if trapped := s.reconciler.CommitLifeCycles(finishedWork.Alternate, finishedWork); trapped != nil {
			aggregated = append(aggregated, *trapped)
		}
		finishedWork.EffectTag = fiber.NoEffect
	}

	log.Debugf("commit complete errors=%d", len(aggregated))
	return aggregated
}
