// Package sched implements the scheduler core: the work loop, the three
// dispatch entry points, the commit engine, and the error pipeline
// (spec.md §4). It is generic over a host.Config and a
// reconcile.Reconciler; it owns no element model of its own.
//
// Scheduler is not safe for concurrent use. Spec.md §5 describes a
// single logical agent running the work loop and commit engine with "no
// locks required"; in Go that is a contract the embedder must uphold
// (route every host callback through one dedicated goroutine), not a
// mutex this package adds — see SPEC_FULL.md §5 for why a lock was
// rejected.
package sched

import (
	"github.com/sirupsen/logrus"

	"github.com/wm3445/react/fiber"
	"github.com/wm3445/react/host"
	"github.com/wm3445/react/internal/rlog"
	"github.com/wm3445/react/priority"
	"github.com/wm3445/react/reconcile"
	"github.com/wm3445/react/registry"
)

// Scheduler is the factory-built value that replaces the spec's
// module-scoped globals (nextScheduledRoot, nextUnitOfWork,
// nextPriorityLevel, priorityContext, shouldBatchUpdates, and the two
// host-callback flags) with one value per embedding (spec.md §9).
type Scheduler struct {
	host       host.Config
	reconciler reconcile.Reconciler
	arena      *fiber.Arena
	registry   *registry.Registry
	log        *rlog.Logger

	nextUnitOfWork    *fiber.Fiber
	nextPriorityLevel priority.Level

	priorityContext priority.Level
	batching        bool

	animationCallbackScheduled bool
	deferredCallbackScheduled  bool

	// pendingCommitErrors collects commit-phase errors (CommitLifeCycles)
	// raised while finishRoot runs under an error-recovery drive
	// (rerenderBoundary), instead of finishRoot re-entering handleErrors
	// from inside the error pipeline's own drive. rerenderBoundary drains
	// this once its drive ends (or stops on an error) and folds it into
	// the TrappedError batch it hands back to the outer fixed-point loop (spec.md §9's
	// coroutine-like reentrancy rule).
	pendingCommitErrors []reconcile.TrappedError
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger overrides the logrus logger used for step tracing. Defaults
// to logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(s *Scheduler) { s.log = rlog.New(l) }
}

// New builds a Scheduler over the given host and reconciler.
func New(h host.Config, r reconcile.Reconciler, opts ...Option) *Scheduler {
	s := &Scheduler{
		host:              h,
		reconciler:        r,
		arena:             fiber.NewArena(),
		registry:          registry.New(),
		log:               rlog.New(nil),
		nextPriorityLevel: priority.NoWork,
		priorityContext:   priority.Low,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRoot allocates a fresh, uncommitted FiberRoot over containerInfo.
// The returned root's Current fiber has no children; the first call to
// ScheduleWork/ScheduleDeferredWork against it is responsible for giving
// it content via the reconciler's normal BeginWork path.
func (s *Scheduler) NewRoot(containerInfo interface{}) *fiber.FiberRoot {
	root := &fiber.FiberRoot{ContainerInfo: containerInfo}
	current := s.arena.New(fiber.HostContainer)
	current.StateNode = root
	current.PendingWorkPriority = priority.NoWork
	root.Current = current
	return root
}

// ScheduleWork schedules root at the current priority context
// (spec.md §6.3 / §4.3's "resolves to scheduleWorkAtPriority").
func (s *Scheduler) ScheduleWork(root *fiber.FiberRoot) {
	s.scheduleWorkAtPriority(root, s.priorityContext)
}

// ScheduleDeferredWork schedules root at an explicit priority.
func (s *Scheduler) ScheduleDeferredWork(root *fiber.FiberRoot, level priority.Level) {
	s.scheduleWorkAtPriority(root, level)
}

// ScheduleUpdate walks from f to its root via Return, raising
// PendingWorkPriority on each node (and its alternate, if any) to at
// least priorityContext, then dispatches the root at that priority. It
// fatals if f's root is not a HostContainer fiber.
func (s *Scheduler) ScheduleUpdate(f *fiber.Fiber) {
	level := s.priorityContext
	node := f
	for {
		raise(node, level)
		if node.Alternate != nil {
			raise(node.Alternate, level)
		}
		if node.Return == nil {
			break
		}
		node = node.Return
	}
	if node.Tag != fiber.HostContainer {
		panic(InvariantError{Msg: "ScheduleUpdate: reached non-HostContainer fiber walking to root"})
	}
	root, ok := node.StateNode.(*fiber.FiberRoot)
	if !ok || root == nil {
		panic(InvariantError{Msg: "ScheduleUpdate: HostContainer fiber has no FiberRoot state"})
	}
	s.scheduleWorkAtPriority(root, level)
}

func raise(f *fiber.Fiber, level priority.Level) {
	f.PendingWorkPriority = priority.Min(f.PendingWorkPriority, level)
}

// PerformWithPriority runs fn with priorityContext temporarily set to
// level, restoring the prior value even if fn panics.
func (s *Scheduler) PerformWithPriority(level priority.Level, fn func()) {
	prev := s.priorityContext
	s.priorityContext = level
	defer func() { s.priorityContext = prev }()
	fn()
}

// SyncUpdates runs fn with priorityContext forced to Sync, restoring the
// prior value even if fn panics, and returns fn's result.
func SyncUpdates[A any](s *Scheduler, fn func() A) A {
	prev := s.priorityContext
	s.priorityContext = priority.Sync
	defer func() { s.priorityContext = prev }()
	return fn()
}

// BatchedUpdates suppresses immediate synchronous flushes for the
// duration of fn; on exiting the outermost batched scope it performs any
// pending synchronous work once. Nesting is idempotent: an inner
// BatchedUpdates call is a no-op with respect to flushing.
func BatchedUpdates[A any](s *Scheduler, fn func() A) A {
	wasBatching := s.batching
	s.batching = true
	defer func() {
		if !wasBatching {
			s.batching = false
		}
	}()
	result := fn()
	if !wasBatching {
		s.performSynchronousWorkUnsafe()
	}
	return result
}

// InvariantError marks a structural-invariant violation (spec.md §7):
// committing the same finished tree twice, an invalid root, etc. These
// are bugs, not recoverable conditions, so the scheduler panics with this
// type instead of returning an error.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string { return "sched: invariant violated: " + e.Msg }
