package services

import (
	"fmt"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driving"
)

// Ensure the task variants implement the interface.
var (
	_ driving.Task = (*TaskBase)(nil)
	_ driving.Task = (*Command)(nil)
	_ driving.Task = (*OneShot)(nil)
	_ driving.Task = (*Sequence)(nil)
)

// TaskBase carries a task's name, requirements and lifecycle, and supplies
// no-op hooks. Embed it to write a custom task and override the hooks needed.
type TaskBase struct {
	name     string
	requires []domain.Resource
	lc       domain.Lifecycle
}

// NewTaskBase creates a task base requiring the given resources.
func NewTaskBase(name string, requires ...domain.Resource) TaskBase {
	return TaskBase{
		name:     name,
		requires: domain.Union(requires),
	}
}

// Name returns the task name.
func (b *TaskBase) Name() string { return b.name }

// Requirements returns a copy of the required resources.
func (b *TaskBase) Requirements() []domain.Resource {
	return append([]domain.Resource(nil), b.requires...)
}

// Initialize does nothing.
func (b *TaskBase) Initialize() error { return nil }

// Execute does nothing.
func (b *TaskBase) Execute() error { return nil }

// IsFinished returns false: a bare task runs until interrupted.
func (b *TaskBase) IsFinished() bool { return false }

// End does nothing.
func (b *TaskBase) End() error { return nil }

// Interrupted does nothing.
func (b *TaskBase) Interrupted() {}

// Lifecycle returns the task lifecycle.
func (b *TaskBase) Lifecycle() *domain.Lifecycle { return &b.lc }

// CommandHooks are the optional hook functions of a Command.
// Nil hooks behave like TaskBase's no-ops.
type CommandHooks struct {
	Initialize  func() error
	Execute     func() error
	IsFinished  func() bool
	End         func() error
	Interrupted func()
}

// Command is a task assembled from hook functions.
type Command struct {
	TaskBase
	hooks CommandHooks
}

// NewCommand creates a task from hook functions.
func NewCommand(name string, hooks CommandHooks, requires ...domain.Resource) *Command {
	return &Command{
		TaskBase: NewTaskBase(name, requires...),
		hooks:    hooks,
	}
}

// NewContinuous creates a task that executes every tick and never finishes.
// It is the usual shape of a default task.
func NewContinuous(name string, execute func() error, requires ...domain.Resource) *Command {
	return NewCommand(name, CommandHooks{Execute: execute}, requires...)
}

// Initialize runs the Initialize hook.
func (c *Command) Initialize() error {
	if c.hooks.Initialize == nil {
		return nil
	}
	return c.hooks.Initialize()
}

// Execute runs the Execute hook.
func (c *Command) Execute() error {
	if c.hooks.Execute == nil {
		return nil
	}
	return c.hooks.Execute()
}

// IsFinished runs the IsFinished hook.
func (c *Command) IsFinished() bool {
	if c.hooks.IsFinished == nil {
		return false
	}
	return c.hooks.IsFinished()
}

// End runs the End hook.
func (c *Command) End() error {
	if c.hooks.End == nil {
		return nil
	}
	return c.hooks.End()
}

// Interrupted runs the Interrupted hook.
func (c *Command) Interrupted() {
	if c.hooks.Interrupted != nil {
		c.hooks.Interrupted()
	}
}

// OneShot is a task whose action runs exactly once per admission. It
// reports finished after its first Execute.
type OneShot struct {
	TaskBase
	action func() error
	done   bool
}

// NewOneShot creates a one-shot action task.
func NewOneShot(name string, action func() error, requires ...domain.Resource) *OneShot {
	return &OneShot{
		TaskBase: NewTaskBase(name, requires...),
		action:   action,
	}
}

// Execute runs the action once.
func (o *OneShot) Execute() error {
	if o.done {
		return nil
	}
	o.done = true
	if o.action == nil {
		return nil
	}
	return o.action()
}

// IsFinished reports whether the action has run.
func (o *OneShot) IsFinished() bool {
	return o.done
}

// Sequence runs child tasks one after another. Its requirements are the
// union of the children's. Interrupting the sequence interrupts the active
// child; children not yet started are left untouched.
type Sequence struct {
	TaskBase
	children []driving.Task
	current  int
}

// NewSequence creates a sequential composite task.
func NewSequence(name string, children ...driving.Task) *Sequence {
	var requires []domain.Resource
	for _, child := range children {
		requires = domain.Union(requires, child.Requirements())
	}
	return &Sequence{
		TaskBase: NewTaskBase(name, requires...),
		children: children,
	}
}

// Current returns the active child, or nil when the sequence is done.
func (s *Sequence) Current() driving.Task {
	if s.current >= len(s.children) {
		return nil
	}
	return s.children[s.current]
}

// Initialize starts the first child.
func (s *Sequence) Initialize() error {
	defer s.interruptChildOnPanic()
	s.current = 0
	return s.startChild()
}

// Execute executes the active child and advances when it finishes.
func (s *Sequence) Execute() error {
	defer s.interruptChildOnPanic()
	child := s.Current()
	if child == nil {
		return nil
	}

	lc := child.Lifecycle()
	if lc.State() == domain.TaskInitialized {
		_ = lc.Advance(domain.TaskRunning)
	}
	lc.CountTick()
	if err := child.Execute(); err != nil {
		_ = lc.Advance(domain.TaskInterrupted)
		return fmt.Errorf("%s: %w", child.Name(), err)
	}

	if !child.IsFinished() {
		return nil
	}
	if err := child.End(); err != nil {
		_ = lc.Advance(domain.TaskInterrupted)
		return fmt.Errorf("%s: end: %w", child.Name(), err)
	}
	_ = lc.Advance(domain.TaskFinished)

	s.current++
	return s.startChild()
}

// startChild admits and initialises the active child, if any.
func (s *Sequence) startChild() error {
	child := s.Current()
	if child == nil {
		return nil
	}

	lc := child.Lifecycle()
	runID := fmt.Sprintf("%s/%d", s.lc.RunID(), s.current)
	if err := lc.Admit(runID, s.lc.StartedAt()); err != nil {
		return fmt.Errorf("%s: %w", child.Name(), err)
	}
	if err := child.Initialize(); err != nil {
		_ = lc.Advance(domain.TaskInterrupted)
		return fmt.Errorf("%s: initialize: %w", child.Name(), err)
	}
	return nil
}

// interruptChildOnPanic marks the active child interrupted when one of its
// hooks panics, then lets the panic reach the scheduler.
func (s *Sequence) interruptChildOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if child := s.Current(); child != nil && child.Lifecycle().State().IsActive() {
		_ = child.Lifecycle().Advance(domain.TaskInterrupted)
	}
	panic(r)
}

// IsFinished reports whether every child has finished.
func (s *Sequence) IsFinished() bool {
	return s.current >= len(s.children)
}

// Interrupted interrupts the active child.
func (s *Sequence) Interrupted() {
	child := s.Current()
	if child == nil || !child.Lifecycle().State().IsActive() {
		return
	}
	_ = child.Lifecycle().Advance(domain.TaskInterrupted)
	child.Interrupted()
}
