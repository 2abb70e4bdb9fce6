package htmlreconciler

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/priority"
	"github.com/wm3445/react/reconcile"
	"github.com/wm3445/react/reconcile/htmlreconciler/domstub"
	"github.com/wm3445/react/sched"
)

// componentState is a CompositeComponent fiber's StateNode: its hook
// cursor, the render function it was built from (for the same-type
// check in reconcileChildren), whether it is an error boundary, and any
// error most recently acknowledged against it.
type componentState struct {
	render   ComponentFunc
	hooks    *Hooks
	boundary bool
	caught   error
}

// hostUpdate is what CompleteWork stages on a HostComponent fiber's
// UpdateQueue for the commit phase to apply.
type hostUpdate struct {
	tag   string
	attrs map[string]string
}

// Reconciler implements reconcile.Reconciler against domstub. It is
// grounded on the teacher's html/components packages (hook bookkeeping)
// and old/vdom/vdom.go (the rendered tree), restructured around the
// begin/complete/commit split the scheduler drives instead of the
// teacher's single recursive render pass.
type Reconciler struct {
	arena *fiber.Arena
	sched *sched.Scheduler

	// roots holds each root's current top-level Element, keyed by its
	// FiberRoot. This lives outside the fiber tree rather than on the
	// container fiber's PendingProps because sched/workloop.go's
	// completeUnitOfWork clears every completed fiber's PendingProps,
	// root included — an update reaching the root only through
	// ScheduleUpdate (e.g. a hook setter deep in the tree), with Mount
	// never called again, would otherwise see no pending element and
	// reconcile the container against zero children, deleting everything
	// under it.
	roots map[*fiber.FiberRoot]*Element
}

// New returns a Reconciler with no bound Scheduler yet. Call Bind once
// the owning Scheduler exists — the two have a circular construction
// dependency (sched.New needs a Reconciler, hook setters need the
// Scheduler to call ScheduleUpdate), so construction happens in two steps.
func New() *Reconciler {
	return &Reconciler{arena: fiber.NewArena(), roots: make(map[*fiber.FiberRoot]*Element)}
}

// Bind closes the circular dependency between Reconciler and Scheduler.
func (r *Reconciler) Bind(s *sched.Scheduler) { r.sched = s }

// Mount sets root's desired top-level tree and schedules work for it.
// Used for a root's first render and, since this reconciler always
// re-renders from the top down, any later call to replace what is
// mounted there (internal state updates reach the root through
// ScheduleUpdate instead, without calling Mount again).
func (r *Reconciler) Mount(root *fiber.FiberRoot, el *Element) {
	r.roots[root] = el
	r.sched.ScheduleWork(root)
}

// CloneFiber delegates to this Reconciler's own fiber.Arena, per
// reconcile.Reconciler's contract comment.
func (r *Reconciler) CloneFiber(f *fiber.Fiber, level priority.Level) *fiber.Fiber {
	return r.arena.Clone(f, level)
}

// BeginWork reconciles wip's children against current.
func (r *Reconciler) BeginWork(current, wip *fiber.Fiber, level priority.Level) *fiber.Fiber {
	switch wip.Tag {
	case fiber.HostContainer:
		root, _ := wip.StateNode.(*fiber.FiberRoot)
		var children []*Element
		if el := r.roots[root]; el != nil {
			children = []*Element{el}
		}
		r.reconcileChildren(wip, children, level)

	case fiber.CompositeComponent:
		el, ok := wip.PendingProps.(*Element)
		if !ok || el == nil {
			panic(errors.New("htmlreconciler: composite fiber has no pending element"))
		}

		var prevHooks *Hooks
		var caught error
		if current != nil {
			if pcs, ok := current.StateNode.(*componentState); ok && pcs != nil {
				prevHooks = pcs.hooks
				caught = pcs.caught
				pcs.caught = nil
			}
		}

		hooks := newHooks(wip, r.sched)
		hooks.cloneFrom(prevHooks)
		hooks.reset()
		cs := &componentState{render: el.Render, hooks: hooks, boundary: el.Boundary}
		wip.StateNode = cs

		child := el.Render(el.Props, hooks, caught)
		if len(hooks.effects) > 0 {
			wip.EffectTag |= fiber.Callback
		}

		var children []*Element
		if child != nil {
			children = []*Element{child}
		}
		r.reconcileChildren(wip, children, level)

	case fiber.HostComponent:
		el, _ := wip.PendingProps.(*Element)
		var children []*Element
		if el != nil {
			children = el.Children
		}
		r.reconcileChildren(wip, children, level)

	case fiber.HostText:
		// Leaf: nothing to reconcile.
	}
	return wip.Child
}

// CompleteWork stages the effect this fiber needs at commit time. It
// never mutates a live domstub instance directly — only current's own,
// already-committed instance is ever mutated in place, and only from
// CommitWork during the atomic commit pass.
func (r *Reconciler) CompleteWork(current, wip *fiber.Fiber) *fiber.Fiber {
	switch wip.Tag {
	case fiber.HostComponent:
		el, _ := wip.PendingProps.(*Element)
		attrs := stringifyProps(el.Props)
		if _, err := buildElement(el.Tag, attrs); err != nil {
			panic(err)
		}
		if current == nil {
			wip.EffectTag |= fiber.Placement
			wip.UpdateQueue = &hostUpdate{tag: el.Tag, attrs: attrs}
			break
		}
		old, _ := current.StateNode.(*domstub.Element)
		wip.StateNode = old
		if old == nil || !reflect.DeepEqual(old.Attrs, attrs) {
			wip.EffectTag |= fiber.Update
			wip.UpdateQueue = &hostUpdate{attrs: attrs}
		}

	case fiber.HostText:
		el, _ := wip.PendingProps.(*Element)
		if current == nil {
			wip.EffectTag |= fiber.Placement
			wip.UpdateQueue = el.Text
			break
		}
		old, _ := current.StateNode.(*domstub.Text)
		wip.StateNode = old
		if old == nil || old.Content != el.Text {
			wip.EffectTag |= fiber.Update
			wip.UpdateQueue = el.Text
		}
	}
	return nil
}

// CommitInsertion builds the live domstub instance for a newly placed
// fiber (host instances are never created earlier, so an abandoned work
// pass never mutates anything reachable from the committed tree) and
// appends it under its nearest host ancestor.
func (r *Reconciler) CommitInsertion(f *fiber.Fiber) {
	switch f.Tag {
	case fiber.HostComponent:
		u, _ := f.UpdateQueue.(*hostUpdate)
		if u == nil {
			return
		}
		inst, err := buildElement(u.tag, u.attrs)
		if err != nil {
			panic(err)
		}
		f.StateNode = inst
	case fiber.HostText:
		text, _ := f.UpdateQueue.(string)
		f.StateNode = domstub.NewText(text)
	default:
		return
	}

	parent := nearestHostParent(f.Return)
	if parent == nil {
		return
	}
	if parentInst := hostElementOf(parent); parentInst != nil {
		parentInst.AppendChild(f.StateNode.(domstub.Node))
	}
}

// CommitWork applies a staged update to current's live instance in place.
func (r *Reconciler) CommitWork(current, f *fiber.Fiber) {
	if current == nil {
		return
	}
	switch f.Tag {
	case fiber.HostComponent:
		u, ok := f.UpdateQueue.(*hostUpdate)
		if !ok || u == nil {
			return
		}
		inst, ok := current.StateNode.(*domstub.Element)
		if !ok {
			return
		}
		attrs := make(map[string]string, len(u.attrs))
		for k, v := range u.attrs {
			attrs[k] = v
		}
		inst.Attrs = attrs
		f.StateNode = inst
	case fiber.HostText:
		text, ok := f.UpdateQueue.(string)
		if !ok {
			return
		}
		inst, ok := current.StateNode.(*domstub.Text)
		if !ok {
			return
		}
		inst.SetContent(text)
		f.StateNode = inst
	}
}

// CommitDeletion detaches f's resolved host instances from their nearest
// host ancestor. There is no unmount lifecycle in this reconciler (the
// teacher has none either), so ignoreErrors is accepted but unused.
func (r *Reconciler) CommitDeletion(f *fiber.Fiber, ignoreErrors bool) []reconcile.TrappedError {
	parent := nearestHostParent(f.Return)
	if parent == nil {
		return nil
	}
	parentInst := hostElementOf(parent)
	if parentInst == nil {
		return nil
	}
	for _, n := range collectHostNodes(f) {
		parentInst.RemoveChild(n)
	}
	return nil
}

// CommitLifeCycles drains the effects this render's hooks queued.
func (r *Reconciler) CommitLifeCycles(current, f *fiber.Fiber) *reconcile.TrappedError {
	if !f.EffectTag.Has(fiber.Callback) {
		return nil
	}
	cs, ok := f.StateNode.(*componentState)
	if !ok || cs == nil {
		return nil
	}
	for _, eff := range cs.hooks.effects {
		if err := runEffectSafely(eff); err != nil {
			trapped := r.TrapError(f, err)
			return &trapped
		}
	}
	return nil
}

// TrapError walks failed's ancestors for the nearest fiber whose
// component state is flagged as an error boundary.
func (r *Reconciler) TrapError(failed *fiber.Fiber, err error) reconcile.TrappedError {
	return reconcile.TrappedError{Boundary: nearestBoundary(failed), Err: err}
}

// AcknowledgeErrorInBoundary records err against boundary's stable
// (current-side) component state, since the wip side boundary itself
// may be discarded: a fresh CloneFiber call on the next rerender copies
// StateNode forward from the current side, and BeginWork reads caught
// off the current parameter it is handed.
func (r *Reconciler) AcknowledgeErrorInBoundary(boundary *fiber.Fiber, err error) error {
	target := boundary
	if boundary.Alternate != nil {
		target = boundary.Alternate
	}
	cs, ok := target.StateNode.(*componentState)
	if !ok || cs == nil {
		return fmt.Errorf("htmlreconciler: boundary fiber has no component state")
	}
	cs.caught = err
	return nil
}

func runEffectSafely(eff func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", rec)
			}
		}
	}()
	eff()
	return
}

func nearestBoundary(f *fiber.Fiber) *fiber.Fiber {
	for f != nil {
		if f.Tag == fiber.CompositeComponent {
			if cs, ok := f.StateNode.(*componentState); ok && cs != nil && cs.boundary {
				return f
			}
		}
		f = f.Return
	}
	return nil
}

func nearestHostParent(f *fiber.Fiber) *fiber.Fiber {
	for f != nil && f.Tag == fiber.CompositeComponent {
		f = f.Return
	}
	return f
}

func hostElementOf(pf *fiber.Fiber) *domstub.Element {
	switch pf.Tag {
	case fiber.HostComponent:
		e, _ := pf.StateNode.(*domstub.Element)
		return e
	case fiber.HostContainer:
		root, ok := pf.StateNode.(*fiber.FiberRoot)
		if !ok || root == nil {
			return nil
		}
		e, _ := root.ContainerInfo.(*domstub.Element)
		return e
	}
	return nil
}

func collectHostNodes(f *fiber.Fiber) []domstub.Node {
	switch f.Tag {
	case fiber.HostComponent, fiber.HostText:
		if n, ok := f.StateNode.(domstub.Node); ok {
			return []domstub.Node{n}
		}
		return nil
	default:
		var out []domstub.Node
		for c := f.Child; c != nil; c = c.Sibling {
			out = append(out, collectHostNodes(c)...)
		}
		return out
	}
}

func buildElement(tag string, attrs map[string]string) (*domstub.Element, error) {
	e, err := domstub.NewElement(tag)
	if err != nil {
		return nil, err
	}
	for k, v := range attrs {
		if err := e.SetAttr(k, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func stringifyProps(props Props) map[string]string {
	attrs := make(map[string]string, len(props))
	for k, v := range props {
		attrs[k] = fmt.Sprintf("%v", v)
	}
	return attrs
}

// reconcileChildren is the teacher's reconcileChildren (fiber/fiber.go),
// generalized to the spec's priority-tagged, multi-effect-list model:
// old children not matched by a new element are marked Deletion and
// spliced directly into wip's own effect list (they have no complete
// phase of their own), matched children are cloned in place, and new
// elements get fresh Placement-tagged fibers.
func (r *Reconciler) reconcileChildren(wip *fiber.Fiber, children []*Element, level priority.Level) {
	var oldChild *fiber.Fiber
	if wip.Alternate != nil {
		oldChild = wip.Alternate.Child
	}

	wip.Child = nil
	var prevSibling *fiber.Fiber
	index := 0

	for index < len(children) || oldChild != nil {
		var el *Element
		if index < len(children) {
			el = children[index]
		}

		sameType := oldChild != nil && el != nil && fiberMatchesElement(oldChild, el)

		var newChild *fiber.Fiber
		switch {
		case sameType:
			newChild = r.arena.Clone(oldChild, level)
			newChild.PendingProps = el
		case el != nil:
			newChild = r.arena.New(tagFor(el))
			newChild.PendingProps = el
			newChild.PendingWorkPriority = level
			newChild.EffectTag |= fiber.Placement
		}

		if oldChild != nil && !sameType {
			// oldChild is a previously-committed fiber; its own
			// FirstEffect/LastEffect may still carry a stale chain from
			// its last commit (commit only clears the root's, see
			// sched/commit.go). CommitDeletion walks Child/Sibling to
			// tear down the whole subtree regardless, so only oldChild
			// itself belongs on wip's effect list.
			oldChild.EffectTag |= fiber.Deletion
			oldChild.FirstEffect = nil
			oldChild.LastEffect = nil
			fiber.SpliceChildEffects(wip, oldChild)
		}
		if oldChild != nil {
			oldChild = oldChild.Sibling
		}

		if newChild != nil {
			newChild.Return = wip
			if index == 0 {
				wip.Child = newChild
			} else if prevSibling != nil {
				prevSibling.Sibling = newChild
			}
			prevSibling = newChild
		}
		index++
	}
	if prevSibling != nil {
		prevSibling.Sibling = nil
	}
	wip.ProgressedChild = wip.Child
}

func tagFor(el *Element) fiber.Tag {
	switch el.Kind {
	case TextKind:
		return fiber.HostText
	case CompositeKind:
		return fiber.CompositeComponent
	default:
		return fiber.HostComponent
	}
}

func fiberMatchesElement(oldChild *fiber.Fiber, el *Element) bool {
	switch el.Kind {
	case Host:
		if oldChild.Tag != fiber.HostComponent {
			return false
		}
		inst, ok := oldChild.StateNode.(*domstub.Element)
		return ok && inst != nil && inst.Tag == el.Tag
	case TextKind:
		return oldChild.Tag == fiber.HostText
	case CompositeKind:
		if oldChild.Tag != fiber.CompositeComponent {
			return false
		}
		cs, ok := oldChild.StateNode.(*componentState)
		if !ok || cs == nil || el.Render == nil || cs.render == nil {
			return false
		}
		return reflect.ValueOf(cs.render).Pointer() == reflect.ValueOf(el.Render).Pointer()
	}
	return false
}
