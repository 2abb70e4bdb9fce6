// Package registry implements the root registry: the singly-linked,
// nil-terminated chain of FiberRoots with pending work (spec.md §4.1).
package registry

import (
	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/priority"
)

// Registry tracks the roots currently scheduled for work. It is owned by
// exactly one Scheduler value; it is not process-wide state.
type Registry struct {
	first *fiber.FiberRoot
	last  *fiber.FiberRoot
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Enqueue implements spec.md §4.1 Enqueue: if root is not already
// scheduled, it is appended to the tail of the chain. Regardless, the
// root's pending priority is raised to at least p — it is never
// deprioritized by a later, less urgent schedule call.
func (r *Registry) Enqueue(root *fiber.FiberRoot, p priority.Level) {
	if !root.IsScheduled {
		root.IsScheduled = true
		root.NextScheduledRoot = nil
		if r.first == nil {
			r.first = root
			r.last = root
		} else {
			r.last.NextScheduledRoot = root
			r.last = root
		}
	}
	root.Current.PendingWorkPriority = priority.Min(root.Current.PendingWorkPriority, p)
}

// PickHighestPriorityRoot scans the chain, first dropping leading roots
// whose current tree has no pending work (detaching them and clearing
// their scheduled flag), then returns the remaining root with the most
// urgent pending priority, ties broken by chain order. It returns nil if
// no root has work.
func (r *Registry) PickHighestPriorityRoot() *fiber.FiberRoot {
	r.gcExhaustedLeading()

	var best *fiber.FiberRoot
	for root := r.first; root != nil; root = root.NextScheduledRoot {
		if !priority.HasWork(root.Current.PendingWorkPriority) {
			continue
		}
		if best == nil || root.Current.PendingWorkPriority < best.Current.PendingWorkPriority {
			best = root
		}
	}
	return best
}

// gcExhaustedLeading detaches roots at the front of the chain that have
// no pending work, matching spec.md's "first, drop leading roots" rule.
// Only the prefix is dropped — a root with no work in the middle of the
// chain is left alone until it reaches the front, which keeps the scan
// itself O(1) amortized across repeated calls during a long deferred
// session.
func (r *Registry) gcExhaustedLeading() {
	for r.first != nil && !priority.HasWork(r.first.Current.PendingWorkPriority) {
		done := r.first
		r.first = done.NextScheduledRoot
		if r.first == nil {
			r.last = nil
		}
		done.IsScheduled = false
		done.NextScheduledRoot = nil
	}
}

// Clear detaches every root from the registry without altering their
// IsScheduled flags, matching the uncaught-error exit of the error
// pipeline (spec.md §4.6 step 5): the registry forgets about them, but a
// caller who re-renders those roots will find IsScheduled still true —
// this is the spec's documented, acknowledged-lossy behavior, not fixed
// here.
func (r *Registry) Clear() {
	r.first = nil
	r.last = nil
}

// Empty reports whether the registry currently holds no roots at all.
func (r *Registry) Empty() bool {
	return r.first == nil
}
