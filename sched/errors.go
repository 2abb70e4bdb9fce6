package sched

import (
	"github.com/pkg/errors"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/reconcile"
)

// handleErrors implements the error pipeline (spec.md §4.6): a
// fixed-point loop that acknowledges trapped errors at their boundary,
// re-renders each affected boundary synchronously with unmount errors
// ignored, and repeats until no more errors surface. It returns the first
// uncaught error (boundary == nil) encountered, or nil if every error was
// eventually caught.
func (s *Scheduler) handleErrors(initial []reconcile.TrappedError) error {
	log := s.log.WithPhase("error-pipeline")
	batch := initial
	var firstUncaught error

	for len(batch) > 0 {
		acknowledged := map[*fiber.Fiber]bool{}
		var affectedBoundaries []*fiber.Fiber
		var nextBatch []reconcile.TrappedError

		for _, te := range batch {
			if te.Boundary == nil {
				log.Warnf("no ancestor boundary for error: %v", te.Err)
				if firstUncaught == nil {
					firstUncaught = te.Err
				}
				continue
			}
			if acknowledged[te.Boundary] {
				continue
			}
			acknowledged[te.Boundary] = true

			if ackErr := s.reconciler.AcknowledgeErrorInBoundary(te.Boundary, te.Err); ackErr != nil {
				log.Warnf("boundary=%s acknowledgement itself failed: %v", te.Boundary.DebugID, ackErr)
				nextBatch = append(nextBatch, reconcile.TrappedError{
					Boundary: te.Boundary,
					Err:      errors.Wrap(ackErr, "acknowledging error in boundary"),
				})
				continue
			}
			log.Warnf("boundary=%s acknowledged error: %v", te.Boundary.DebugID, te.Err)
			affectedBoundaries = append(affectedBoundaries, te.Boundary)
		}

		for _, boundary := range affectedBoundaries {
			nextBatch = append(nextBatch, s.rerenderBoundary(boundary)...)
		}

		batch = nextBatch
	}

	if firstUncaught != nil {
		log.Errorf("uncaught error, clearing registry: %v", firstUncaught)
		s.registry.Clear()
		return firstUncaught
	}
	return nil
}

// rerenderBoundary implements spec.md §4.6 step 3: raise pendingWork
// priority from boundary up to its root, clone the root, and drive
// performUnitOfWork in a tight loop with unmount errors ignored until
// exhaustion. Any error raised during that drive is trapped against the
// same boundary (not re-looked-up) and handed back for the next
// iteration of the fixed-point loop.
func (s *Scheduler) rerenderBoundary(boundary *fiber.Fiber) []reconcile.TrappedError {
	node := boundary
	for {
		raise(node, s.priorityContext)
		if node.Alternate != nil {
			raise(node.Alternate, s.priorityContext)
		}
		if node.Return == nil {
			break
		}
		node = node.Return
	}

	root, ok := node.StateNode.(*fiber.FiberRoot)
	if !ok || root == nil {
		panic(InvariantError{Msg: "rerenderBoundary: reached HostContainer fiber without FiberRoot state"})
	}

	unit := s.reconciler.CloneFiber(root.Current, s.priorityContext)
	for unit != nil {
		next, err := s.recoverUnitOfWork(unit, true)
		if err != nil {
			return append(s.drainPendingCommitErrors(), reconcile.TrappedError{Boundary: boundary, Err: err})
		}
		unit = next
	}
	return s.drainPendingCommitErrors()
}

// drainPendingCommitErrors returns and clears any commit-phase errors
// finishRoot accumulated while this drive ran, instead of handling them
// recursively from inside the error pipeline.
func (s *Scheduler) drainPendingCommitErrors() []reconcile.TrappedError {
	errs := s.pendingCommitErrors
	s.pendingCommitErrors = nil
	return errs
}
