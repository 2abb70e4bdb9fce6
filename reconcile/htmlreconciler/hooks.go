package htmlreconciler

import (
	"reflect"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/sched"
)

type hookKind int

const (
	stateHook hookKind = iota
	effectHook
	memoHook
)

type hookSlot struct {
	kind  hookKind
	value interface{}
	deps  []interface{}
}

// Hooks is the per-fiber hook cursor, grounded on fiber/fiber.go's
// Hooks type but unified into one ordered slot list instead of parallel
// state/deps/memos arrays indexed by a shared counter (the teacher's
// scheme misaligns once a render mixes hook kinds at the same position).
type Hooks struct {
	fiber   *fiber.Fiber
	sched   *sched.Scheduler
	slots   []hookSlot
	index   int
	effects []func()
}

func newHooks(f *fiber.Fiber, s *sched.Scheduler) *Hooks {
	return &Hooks{fiber: f, sched: s}
}

// cloneFrom copies prev's hook slots so a re-render of the same
// component preserves state/memo values across fibers.
func (h *Hooks) cloneFrom(prev *Hooks) {
	if prev == nil {
		return
	}
	h.slots = append([]hookSlot(nil), prev.slots...)
}

func (h *Hooks) reset() {
	h.index = 0
	h.effects = nil
}

// UseState mirrors the teacher's useState[T]: a getter/setter pair
// backed by a stable slot position. The setter raises priorityContext's
// level against h.fiber's root and dispatches it (spec.md §6.3) whenever
// the new value actually differs from the old one.
func UseState[T any](h *Hooks, initial T) (T, func(T)) {
	pos := h.index
	h.index++
	if pos >= len(h.slots) {
		h.slots = append(h.slots, hookSlot{kind: stateHook, value: initial})
	}
	setter := func(v T) {
		if !reflect.DeepEqual(h.slots[pos].value, v) {
			h.slots[pos].value = v
			h.sched.ScheduleUpdate(h.fiber)
		}
	}
	return h.slots[pos].value.(T), setter
}

// UseEffect mirrors the teacher's useEffect: nil deps always reruns,
// an empty slice runs once on mount, otherwise it reruns when deps
// change under reflect.DeepEqual. Queued effects are drained by
// Reconciler.CommitLifeCycles during the lifecycle pass.
func UseEffect(h *Hooks, effect func(), deps []interface{}) {
	pos := h.index
	h.index++
	if pos >= len(h.slots) {
		h.slots = append(h.slots, hookSlot{kind: effectHook, deps: deps})
		h.effects = append(h.effects, effect)
		return
	}
	prevDeps := h.slots[pos].deps
	var run bool
	switch {
	case deps == nil:
		run = true
	case len(deps) == 0:
		run = prevDeps == nil
	default:
		run = !depsEqual(prevDeps, deps)
	}
	if run {
		h.slots[pos].deps = deps
		h.effects = append(h.effects, effect)
	}
}

// UseMemo mirrors the teacher's useMemo.
func UseMemo[T any](h *Hooks, compute func() T, deps []interface{}) T {
	pos := h.index
	h.index++
	if pos >= len(h.slots) {
		v := compute()
		h.slots = append(h.slots, hookSlot{kind: memoHook, value: v, deps: deps})
		return v
	}
	slot := &h.slots[pos]
	if !depsEqual(slot.deps, deps) {
		slot.value = compute()
		slot.deps = deps
	}
	return slot.value.(T)
}

func depsEqual(prev, next []interface{}) bool {
	if prev == nil || next == nil {
		return false
	}
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !reflect.DeepEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}
