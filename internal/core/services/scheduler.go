package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
	"github.com/team151/robotcore/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs tasks cooperatively on a single thread and arbitrates
// resource ownership between them.
//
// Schedule and Cancel may be called from any goroutine; they only queue work
// for the next tick boundary. Every task hook runs inside Tick.
type Scheduler struct {
	faults  driven.FaultSink
	journal driven.TaskJournal
	now     func() time.Time

	// queueMu guards pending and cancels.
	queueMu sync.Mutex
	pending []driving.Task
	cancels []driving.Task

	// stateMu guards running, owners and defaults. It is never held while a
	// hook runs, so hooks may call Schedule, Cancel, Owner and Running.
	stateMu      sync.RWMutex
	running      []driving.Task
	owners       map[domain.Resource]driving.Task
	defaults     map[domain.Resource]driving.TaskFactory
	defaultOrder []domain.Resource

	ticking atomic.Bool

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFaultSink sets where hook faults are reported. Without a sink faults
// are logged.
func WithFaultSink(sink driven.FaultSink) SchedulerOption {
	return func(s *Scheduler) { s.faults = sink }
}

// WithJournal records every terminated task run.
func WithJournal(journal driven.TaskJournal) SchedulerOption {
	return func(s *Scheduler) { s.journal = journal }
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a scheduler with no running tasks.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		now:      time.Now,
		owners:   make(map[domain.Resource]driving.Task),
		defaults: make(map[domain.Resource]driving.TaskFactory),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule queues a task for admission at the next tick. Scheduling a task
// that is already pending or running does nothing. A newer pending task
// replaces earlier pending tasks that share a resource with it.
func (s *Scheduler) Schedule(task driving.Task) error {
	if task == nil {
		return fmt.Errorf("%w: nil task", domain.ErrInvalidInput)
	}

	state := task.Lifecycle().State()
	if state.IsTerminal() {
		return fmt.Errorf("%w: cannot schedule %q", domain.ErrTaskTerminal, task.Name())
	}
	if state.IsActive() {
		return nil
	}

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	for _, p := range s.pending {
		if p == task {
			return nil
		}
	}

	requires := task.Requirements()
	kept := s.pending[:0]
	for _, p := range s.pending {
		if domain.Overlaps(p.Requirements(), requires) {
			logger.Debug("scheduler: %q replaces pending %q", task.Name(), p.Name())
			continue
		}
		kept = append(kept, p)
	}
	s.pending = append(kept, task)
	return nil
}

// Cancel queues an interruption of the task. A pending task is simply
// dropped and stays Created.
func (s *Scheduler) Cancel(task driving.Task) {
	if task == nil {
		return
	}

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	for i, p := range s.pending {
		if p == task {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	s.cancels = append(s.cancels, task)
}

// SetDefaultTask binds a fallback task factory to a resource. Each
// admission gets a fresh instance from the factory.
func (s *Scheduler) SetDefaultTask(resource domain.Resource, factory driving.TaskFactory) error {
	if factory == nil {
		return fmt.Errorf("%w: nil default task factory", domain.ErrInvalidInput)
	}
	sample := factory()
	if sample == nil {
		return fmt.Errorf("%w: default task factory returned nil", domain.ErrInvalidInput)
	}
	if !domain.Contains(sample.Requirements(), resource) {
		return fmt.Errorf("%w: default task %q does not require %s", domain.ErrInvalidInput, sample.Name(), resource)
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if _, ok := s.defaults[resource]; !ok {
		s.defaultOrder = append(s.defaultOrder, resource)
	}
	s.defaults[resource] = factory
	return nil
}

// Tick runs one scheduling cycle: cancellations, admissions and default
// tasks, then Execute for every running task in admission order, then the
// IsFinished poll and End for finished tasks.
func (s *Scheduler) Tick(ctx context.Context) error {
	if !s.ticking.CompareAndSwap(false, true) {
		return domain.ErrReentrantTick
	}
	defer s.ticking.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	cancels, pending := s.drainQueue()
	for _, task := range cancels {
		if task.Lifecycle().State().IsActive() && s.isRunning(task) {
			s.interrupt(ctx, task)
		}
	}
	for _, task := range pending {
		s.admit(ctx, task)
	}
	s.admitDefaults(ctx)

	for _, task := range s.Running() {
		s.execute(ctx, task)
	}
	for _, task := range s.Running() {
		s.poll(ctx, task)
	}
	return nil
}

func (s *Scheduler) drainQueue() (cancels, pending []driving.Task) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	cancels, pending = s.cancels, s.pending
	s.cancels, s.pending = nil, nil
	return cancels, pending
}

// admit interrupts every running task that overlaps the newcomer, then
// initialises it.
func (s *Scheduler) admit(ctx context.Context, task driving.Task) {
	if task.Lifecycle().State() != domain.TaskCreated {
		return
	}

	requires := task.Requirements()
	for _, r := range s.Running() {
		if domain.Overlaps(r.Requirements(), requires) {
			logger.Debug("scheduler: %q interrupts %q", task.Name(), r.Name())
			s.interrupt(ctx, r)
		}
	}

	if err := task.Lifecycle().Admit(uuid.NewString(), s.now()); err != nil {
		logger.Warn("scheduler: cannot admit %q: %v", task.Name(), err)
		return
	}

	s.stateMu.Lock()
	s.running = append(s.running, task)
	for _, r := range requires {
		s.owners[r] = task
	}
	s.stateMu.Unlock()

	logger.Debug("scheduler: admitted %q %v", task.Name(), requires)

	if fault := s.call(task, domain.HookInitialize, task.Initialize); fault != nil {
		s.fault(ctx, task, fault)
	}
}

// admitDefaults admits a fresh default task for each unclaimed resource
// whose default task's requirements are all free.
func (s *Scheduler) admitDefaults(ctx context.Context) {
	s.stateMu.RLock()
	order := append([]domain.Resource(nil), s.defaultOrder...)
	s.stateMu.RUnlock()

	for _, resource := range order {
		if _, owned := s.Owner(resource); owned {
			continue
		}

		s.stateMu.RLock()
		factory := s.defaults[resource]
		s.stateMu.RUnlock()

		task := factory()
		if task == nil || !s.allFree(task.Requirements()) {
			continue
		}
		s.admit(ctx, task)
	}
}

func (s *Scheduler) allFree(resources []domain.Resource) bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	for _, r := range resources {
		if _, ok := s.owners[r]; ok {
			return false
		}
	}
	return true
}

func (s *Scheduler) execute(ctx context.Context, task driving.Task) {
	lc := task.Lifecycle()
	if !lc.State().IsActive() {
		return
	}
	if lc.State() == domain.TaskInitialized {
		_ = lc.Advance(domain.TaskRunning)
	}
	lc.CountTick()

	if fault := s.call(task, domain.HookExecute, task.Execute); fault != nil {
		s.fault(ctx, task, fault)
	}
}

func (s *Scheduler) poll(ctx context.Context, task driving.Task) {
	if !task.Lifecycle().State().IsActive() {
		return
	}

	var finished bool
	fault := s.call(task, domain.HookIsFinished, func() error {
		finished = task.IsFinished()
		return nil
	})
	if fault != nil {
		s.fault(ctx, task, fault)
		return
	}
	if !finished {
		return
	}

	s.release(task)
	if fault := s.call(task, domain.HookEnd, task.End); fault != nil {
		s.fault(ctx, task, fault)
		return
	}
	_ = task.Lifecycle().Advance(domain.TaskFinished)
	logger.Debug("scheduler: %q finished after %d ticks", task.Name(), task.Lifecycle().Ticks())
	s.record(ctx, task, domain.OutcomeFinished, "")
}

// interrupt frees the task's resources, marks it interrupted and calls its
// Interrupted hook once.
func (s *Scheduler) interrupt(ctx context.Context, task driving.Task) {
	s.release(task)
	if err := task.Lifecycle().Advance(domain.TaskInterrupted); err != nil {
		return
	}

	if fault := s.call(task, domain.HookInterrupted, func() error {
		task.Interrupted()
		return nil
	}); fault != nil {
		s.report(fault)
		s.record(ctx, task, domain.OutcomeFaulted, fault.Error())
		return
	}
	s.record(ctx, task, domain.OutcomeInterrupted, "")
}

// fault isolates a task whose hook failed. No further hooks are called.
func (s *Scheduler) fault(ctx context.Context, task driving.Task, fault *domain.HookFault) {
	s.release(task)
	_ = task.Lifecycle().Advance(domain.TaskInterrupted)
	s.report(fault)
	s.record(ctx, task, domain.OutcomeFaulted, fault.Error())
}

func (s *Scheduler) report(fault *domain.HookFault) {
	if s.faults == nil {
		logger.Error("scheduler: %v", fault)
		return
	}
	s.faults.Report(fault)
}

// release removes the task from the running list and frees its resources.
func (s *Scheduler) release(task driving.Task) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	for i, r := range s.running {
		if r == task {
			s.running = append(s.running[:i], s.running[i+1:]...)
			break
		}
	}
	for res, owner := range s.owners {
		if owner == task {
			delete(s.owners, res)
		}
	}
}

// call runs a hook, converting an error return or a panic into a fault.
func (s *Scheduler) call(task driving.Task, hook domain.Hook, fn func() error) (fault *domain.HookFault) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			fault = &domain.HookFault{
				TaskName: task.Name(),
				Hook:     hook,
				Err:      err,
				Panicked: true,
				At:       s.now(),
			}
		}
	}()

	if err := fn(); err != nil {
		return &domain.HookFault{
			TaskName: task.Name(),
			Hook:     hook,
			Err:      err,
			At:       s.now(),
		}
	}
	return nil
}

func (s *Scheduler) record(ctx context.Context, task driving.Task, outcome domain.TaskOutcome, errMsg string) {
	if s.journal == nil {
		return
	}

	lc := task.Lifecycle()
	run := &domain.TaskRun{
		ID:        lc.RunID(),
		TaskName:  task.Name(),
		Resources: task.Requirements(),
		Outcome:   outcome,
		StartedAt: lc.StartedAt(),
		EndedAt:   s.now(),
		Ticks:     lc.Ticks(),
		Error:     errMsg,
	}
	if err := s.journal.Record(ctx, run); err != nil {
		logger.Warn("scheduler: failed to record run of %q: %v", task.Name(), err)
	}
}

// Running returns the running tasks in admission order.
func (s *Scheduler) Running() []driving.Task {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return append([]driving.Task(nil), s.running...)
}

func (s *Scheduler) isRunning(task driving.Task) bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	for _, r := range s.running {
		if r == task {
			return true
		}
	}
	return false
}

// Owner returns the running task that holds a resource.
func (s *Scheduler) Owner(resource domain.Resource) (driving.Task, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	task, ok := s.owners[resource]
	return task, ok
}

// IsScheduled reports whether the task is pending or running.
func (s *Scheduler) IsScheduled(task driving.Task) bool {
	if s.isRunning(task) {
		return true
	}

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	for _, p := range s.pending {
		if p == task {
			return true
		}
	}
	return false
}

// Start runs Tick every period until the context is cancelled or Stop is
// called. It blocks until then and interrupts every running task on exit.
func (s *Scheduler) Start(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("%w: scheduler period must be positive", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return domain.ErrSchedulerRunning
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	defer func() {
		s.shutdown(context.WithoutCancel(ctx))
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		close(doneCh)
	}()

	return s.run(ctx, period, stopCh)
}

// run is the periodic tick loop.
func (s *Scheduler) run(ctx context.Context, period time.Duration, stopCh <-chan struct{}) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil && !errors.Is(err, ctx.Err()) {
				logger.Warn("scheduler: tick failed: %v", err)
			}
		}
	}
}

// shutdown interrupts running tasks, newest first, so their Interrupted
// hooks leave actuators safe.
func (s *Scheduler) shutdown(ctx context.Context) {
	running := s.Running()
	for i := len(running) - 1; i >= 0; i-- {
		s.interrupt(ctx, running[i])
	}
}

// Stop ends the loop started by Start and waits for it to exit. While a tick
// is in progress, as when Stop is called from a task hook, it returns at once
// and the loop exits after that tick.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started || s.stopCh == nil {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	doneCh := s.doneCh
	s.mu.Unlock()

	if s.ticking.Load() {
		return nil
	}
	<-doneCh
	return nil
}
