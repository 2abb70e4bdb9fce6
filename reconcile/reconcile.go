// Package reconcile declares the reconciliation collaborators the
// scheduler treats as black boxes (spec.md §6.2): the functions that
// decide child diffing and host mutation for each fiber type, and the
// error-boundary lookup/acknowledgement pair the error pipeline drives.
package reconcile

import (
	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/priority"
)

// TrappedError pairs a user-code error with the nearest ancestor error
// boundary that can handle it. A nil Boundary means no ancestor boundary
// exists and the error will surface to the host once the error pipeline
// exhausts its fixed-point loop.
type TrappedError struct {
	Boundary *fiber.Fiber
	Err      error
}

// Reconciler is the set of reconciliation operations the scheduler
// invokes as black boxes. The scheduler never inspects a Fiber's props,
// type, or host instance directly — only a Reconciler implementation
// does.
type Reconciler interface {
	// BeginWork reconciles wip's children against current and returns the
	// first child to work on next, or nil if this subtree bailed out or
	// has no children.
	BeginWork(current, wip *fiber.Fiber, level priority.Level) *fiber.Fiber

	// CompleteWork finalizes wip once its children are done. It may
	// return a newly spawned fiber (rare — host effects that need a
	// second pass); the scheduler treats a non-nil return as more work.
	CompleteWork(current, wip *fiber.Fiber) *fiber.Fiber

	// CommitInsertion attaches f's host instance into its host parent.
	CommitInsertion(f *fiber.Fiber)

	// CommitWork applies an in-place update to f's host instance.
	CommitWork(current, f *fiber.Fiber)

	// CommitDeletion removes f's subtree's host instances. If
	// ignoreErrors is true (driven by an error-boundary re-render), the
	// caller discards any returned errors; otherwise they are aggregated
	// and fed to the error pipeline after commit.
	CommitDeletion(f *fiber.Fiber, ignoreErrors bool) []TrappedError

	// CommitLifeCycles fires mount/update lifecycle hooks for f. A
	// non-nil return is aggregated the same way CommitDeletion's errors
	// are, without the ignoreErrors exception.
	CommitLifeCycles(current, f *fiber.Fiber) *TrappedError

	// TrapError wraps err with the nearest ancestor error boundary of
	// failed, or a nil boundary if none exists.
	TrapError(failed *fiber.Fiber, err error) TrappedError

	// AcknowledgeErrorInBoundary notifies boundary that it caught err,
	// giving it a chance to update its own state (e.g. "render fallback
	// UI"). An error returned here is itself trapped against boundary by
	// the error pipeline.
	AcknowledgeErrorInBoundary(boundary *fiber.Fiber, err error) error

	// CloneFiber allocates or reuses f's alternate for work at the given
	// priority. Reconcilers that allocate their own fiber kinds should
	// delegate to a shared fiber.Arena so construction stays centralized.
	CloneFiber(f *fiber.Fiber, level priority.Level) *fiber.Fiber
}
