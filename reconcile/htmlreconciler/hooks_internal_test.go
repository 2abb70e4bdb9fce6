package htmlreconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/host"
	"github.com/wm3445/react/priority"
	"github.com/wm3445/react/sched"
)

// noopHost never invokes a scheduled callback; these tests only care
// about UseState's setter reaching ScheduleUpdate without panicking, not
// about the work loop actually running.
type noopHost struct{}

func (noopHost) ScheduleAnimationCallback(func())             {}
func (noopHost) ScheduleDeferredCallback(func(host.Deadline)) {}
func (noopHost) UseSyncScheduling() bool                      { return false }

func newTestRootFiber() *fiber.Fiber {
	f := &fiber.Fiber{Tag: fiber.HostContainer, PendingWorkPriority: priority.NoWork}
	f.StateNode = &fiber.FiberRoot{Current: f}
	return f
}

func TestUseStateReturnsInitialOnFirstCall(t *testing.T) {
	h := newHooks(newTestRootFiber(), sched.New(noopHost{}, New()))
	v, _ := UseState(h, 7)
	assert.Equal(t, 7, v)
}

func TestUseStateSetterUpdatesSlotAndSchedules(t *testing.T) {
	root := newTestRootFiber()
	s := sched.New(noopHost{}, New())
	h := newHooks(root, s)

	_, setV := UseState(h, "a")
	require.NotPanics(t, func() { setV("b") })
	assert.Equal(t, "b", h.slots[0].value)
}

func TestUseStateSetterIsNoOpWhenValueUnchanged(t *testing.T) {
	h := newHooks(newTestRootFiber(), sched.New(noopHost{}, New()))
	_, setV := UseState(h, 1)
	setV(1)
	assert.Equal(t, 1, h.slots[0].value)
}

func TestCloneFromCarriesSlotValuesForward(t *testing.T) {
	prev := newHooks(newTestRootFiber(), sched.New(noopHost{}, New()))
	UseState(prev, 42)

	next := newHooks(newTestRootFiber(), nil)
	next.cloneFrom(prev)

	v, _ := UseState(next, 0)
	assert.Equal(t, 42, v)
}

func TestUseEffectRunsOnceWithEmptyDeps(t *testing.T) {
	h := newHooks(newTestRootFiber(), nil)
	UseEffect(h, func() {}, []interface{}{})
	require.Len(t, h.effects, 1)

	h2 := newHooks(newTestRootFiber(), nil)
	h2.cloneFrom(h)
	UseEffect(h2, func() {}, []interface{}{})
	assert.Empty(t, h2.effects, "empty deps must not rerun on a later pass")
}

func TestUseEffectAlwaysRunsWithNilDeps(t *testing.T) {
	h := newHooks(newTestRootFiber(), nil)
	UseEffect(h, func() {}, nil)
	h2 := newHooks(newTestRootFiber(), nil)
	h2.cloneFrom(h)
	UseEffect(h2, func() {}, nil)
	assert.Len(t, h2.effects, 1, "nil deps must always rerun")
}

func TestUseEffectRerunsWhenDepsChange(t *testing.T) {
	h := newHooks(newTestRootFiber(), nil)
	UseEffect(h, func() {}, []interface{}{1})
	h2 := newHooks(newTestRootFiber(), nil)
	h2.cloneFrom(h)
	UseEffect(h2, func() {}, []interface{}{2})
	assert.Len(t, h2.effects, 1)
}

func TestUseMemoRecomputesOnlyWhenDepsChange(t *testing.T) {
	h := newHooks(newTestRootFiber(), nil)
	calls := 0
	compute := func() int { calls++; return calls }

	first := UseMemo(h, compute, []interface{}{1})
	h.reset()
	second := UseMemo(h, compute, []interface{}{1})
	h.reset()
	third := UseMemo(h, compute, []interface{}{2})

	assert.Equal(t, first, second, "same deps must reuse the memoized value")
	assert.NotEqual(t, second, third, "changed deps must recompute")
}
