// Package fiber implements the double-buffered work-unit tree: the data
// model reconciliation and the scheduler share. A Fiber pairs with its
// Alternate across the current and work-in-progress trees; the scheduler
// walks it with plain pointers the same way the teacher's original vdom
// fiber did, and the Go garbage collector is trusted to reclaim the
// resulting reference cycles.
package fiber

import (
	"github.com/google/uuid"

	"github.com/wm3445/react/priority"
)

// Tag discriminates what kind of work a Fiber represents. The range is
// intentionally open so a reconciler can register additional host fiber
// kinds without changing this package.
type Tag int

const (
	// HostContainer is the root of a tree; its StateNode is a *FiberRoot,
	// and it is the only tag whose Return is always nil.
	HostContainer Tag = iota
	// HostComponent is a native host element (e.g. a DOM node).
	HostComponent
	// HostText is a native text node.
	HostText
	// CompositeComponent is a user-defined component function.
	CompositeComponent
)

// EffectTag is a bitset of pending side effects on a Fiber.
type EffectTag uint8

const (
	NoEffect  EffectTag = 0
	Placement EffectTag = 1 << (iota - 1)
	Update
	Deletion
	Callback
)

// Has reports whether t contains all bits of other.
func (t EffectTag) Has(other EffectTag) bool { return t&other == other }

// Any reports whether t contains any bit of other.
func (t EffectTag) Any(other EffectTag) bool { return t&other != 0 }

// Fiber is one unit of reconciliation work: a node in the double-buffered
// tree. Only the currently active phase (begin/complete/commit) may
// mutate a given Fiber — see package sched.
type Fiber struct {
	// DebugID correlates log lines for this fiber across phases; it is
	// not used for equality or identity anywhere in this package.
	DebugID uuid.UUID

	Tag Tag
	// StateNode is the owned host instance for host fibers, or the
	// *FiberRoot for a HostContainer fiber.
	StateNode interface{}

	Return  *Fiber
	Child   *Fiber
	Sibling *Fiber

	// Alternate is the paired fiber in the other buffer. Bidirectional:
	// f.Alternate.Alternate == f whenever either is set.
	Alternate *Fiber

	PendingProps interface{}
	UpdateQueue  interface{}

	// ProgressedChild is the first child of the most recently progressed
	// child set, used by ResetWorkPriority to walk siblings.
	ProgressedChild *Fiber

	PendingWorkPriority priority.Level

	EffectTag EffectTag

	FirstEffect *Fiber
	LastEffect  *Fiber
	NextEffect  *Fiber
}

// FiberRoot is a host container descriptor: one entry point into a fiber
// tree, tracked by the root registry while it has pending work.
type FiberRoot struct {
	// Current is the last successfully committed fiber for this root.
	Current *Fiber

	IsScheduled       bool
	NextScheduledRoot *FiberRoot

	// ContainerInfo is an opaque host container handle passed through to
	// the reconciler; the scheduler never inspects it.
	ContainerInfo interface{}
}

// Arena is a fiber allocator; one Arena may serve any number of roots.
// It exists so that fiber
// construction (new nodes and clones) goes through one place that can
// stamp a debug id; it does not own fiber memory the way an arena would
// in a non-GC'd target — Go's collector reclaims fibers normally once
// unreachable.
type Arena struct{}

// NewArena returns a ready-to-use Arena.
func NewArena() *Arena { return &Arena{} }

// New allocates a fresh Fiber with the given tag, stamped with a debug id.
func (a *Arena) New(tag Tag) *Fiber {
	return &Fiber{Tag: tag, DebugID: uuid.New(), PendingWorkPriority: priority.NoWork}
}

// Clone returns current's alternate, allocating and linking one if none
// exists yet, and resets the fields the spec says a clone starts fresh
// with. The scheduler never calls Clone itself: it clones through the
// reconciler's CloneFiber collaborator (spec.md §6.2), which a reconciler
// can implement by delegating here.
func (a *Arena) Clone(current *Fiber, p priority.Level) *Fiber {
	wip := current.Alternate
	if wip == nil {
		wip = &Fiber{DebugID: uuid.New()}
		wip.Alternate = current
		current.Alternate = wip
	}
	wip.Tag = current.Tag
	wip.StateNode = current.StateNode
	wip.PendingProps = current.PendingProps
	wip.UpdateQueue = current.UpdateQueue
	wip.Return = current.Return
	wip.Child = current.Child
	wip.Sibling = current.Sibling
	wip.ProgressedChild = nil
	wip.PendingWorkPriority = p
	wip.EffectTag = NoEffect
	wip.FirstEffect = nil
	wip.LastEffect = nil
	wip.NextEffect = nil
	return wip
}

// ResetWorkPriority recomputes f.PendingWorkPriority as the minimum
// (most urgent) pending priority among f.ProgressedChild and its
// siblings, omitting NoWork. If none have pending work, f becomes
// NoWork. This must run after a fiber's children have all completed.
func ResetWorkPriority(f *Fiber) {
	newest := priority.NoWork
	for c := f.ProgressedChild; c != nil; c = c.Sibling {
		if priority.HasWork(c.PendingWorkPriority) {
			newest = priority.Min(newest, c.PendingWorkPriority)
		}
	}
	f.PendingWorkPriority = newest
}
