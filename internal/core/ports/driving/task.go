package driving

import "github.com/team151/robotcore/internal/core/domain"

// Task is a unit of control logic with a five-hook lifecycle.
//
// The scheduler calls Initialize once on admission, Execute once per tick,
// polls IsFinished after every Execute, and then calls exactly one of End
// (the task finished) or Interrupted (a conflicting task took over, the task
// was cancelled). Hooks must return within one tick; long actions poll
// sensor state from IsFinished across many ticks.
type Task interface {
	// Name identifies the task in logs and the journal.
	Name() string

	// Requirements returns the resources this task needs exclusively.
	// The set is fixed at construction.
	Requirements() []domain.Resource

	// Initialize runs once when the task is admitted.
	Initialize() error

	// Execute runs once per scheduler tick while the task is running.
	Execute() error

	// IsFinished is polled after each Execute.
	IsFinished() bool

	// End runs once after IsFinished returns true.
	End() error

	// Interrupted runs once when the task is displaced or cancelled.
	Interrupted()

	// Lifecycle returns the task's lifecycle state, advanced by the scheduler.
	Lifecycle() *domain.Lifecycle
}

// TaskFactory creates a fresh task instance. Default tasks are created
// through a factory because a terminated instance cannot run again.
type TaskFactory func() Task
