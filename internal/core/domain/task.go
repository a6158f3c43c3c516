package domain

import (
	"fmt"
	"time"
)

// TaskState is the lifecycle position of a task instance.
type TaskState int

// Task lifecycle states.
const (
	// TaskCreated is a task that has not been admitted by the scheduler.
	TaskCreated TaskState = iota

	// TaskInitialized is a task whose Initialize hook has run.
	TaskInitialized

	// TaskRunning is a task that has executed at least once.
	TaskRunning

	// TaskFinished is a task that reported completion and ran End.
	TaskFinished

	// TaskInterrupted is a task displaced by a conflicting task, cancelled,
	// or stopped by a hook fault.
	TaskInterrupted
)

// String returns the state name.
func (s TaskState) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskInitialized:
		return "initialized"
	case TaskRunning:
		return "running"
	case TaskFinished:
		return "finished"
	case TaskInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state cannot be left.
func (s TaskState) IsTerminal() bool {
	return s == TaskFinished || s == TaskInterrupted
}

// IsActive reports whether a task in this state holds its resources.
func (s TaskState) IsActive() bool {
	return s == TaskInitialized || s == TaskRunning
}

// CanTransition reports whether a task may move from one state to another.
func CanTransition(from, to TaskState) bool {
	switch from {
	case TaskCreated:
		return to == TaskInitialized || to == TaskInterrupted
	case TaskInitialized:
		return to == TaskRunning || to == TaskFinished || to == TaskInterrupted
	case TaskRunning:
		return to == TaskFinished || to == TaskInterrupted
	default:
		return false
	}
}

// TaskOutcome classifies how a task run ended.
type TaskOutcome string

// Task outcomes.
const (
	OutcomeFinished    TaskOutcome = "finished"
	OutcomeInterrupted TaskOutcome = "interrupted"
	OutcomeFaulted     TaskOutcome = "faulted"
)

// String returns the string representation.
func (o TaskOutcome) String() string {
	return string(o)
}

// IsValid returns true if the outcome is recognised.
func (o TaskOutcome) IsValid() bool {
	switch o {
	case OutcomeFinished, OutcomeInterrupted, OutcomeFaulted:
		return true
	default:
		return false
	}
}

// TaskRun records one admission of a task, from Initialize to its
// terminal transition.
type TaskRun struct {
	// ID is the unique identifier for this run.
	ID string

	// TaskName is the name of the task that ran.
	TaskName string

	// Resources are the resources the task held.
	Resources []Resource

	// Outcome is how the run ended.
	Outcome TaskOutcome

	// StartedAt is when the task was admitted.
	StartedAt time.Time

	// EndedAt is when the task reached a terminal state.
	EndedAt time.Time

	// Ticks is the number of Execute calls made.
	Ticks int

	// Error contains the fault message if Outcome is faulted.
	Error string
}

// Duration returns how long the run lasted.
func (r TaskRun) Duration() time.Duration {
	if r.EndedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Hook names a task lifecycle hook.
type Hook string

// Task hooks.
const (
	HookInitialize  Hook = "initialize"
	HookExecute     Hook = "execute"
	HookIsFinished  Hook = "is_finished"
	HookEnd         Hook = "end"
	HookInterrupted Hook = "interrupted"
)

// HookFault describes a task hook that returned an error or panicked.
type HookFault struct {
	// TaskName is the faulting task.
	TaskName string

	// Hook is the lifecycle hook that failed.
	Hook Hook

	// Err is the error returned by the hook, or built from the panic value.
	Err error

	// Panicked is true if the hook panicked rather than returning an error.
	Panicked bool

	// At is when the fault was caught.
	At time.Time
}

// Error implements error.
func (f *HookFault) Error() string {
	kind := "failed"
	if f.Panicked {
		kind = "panicked"
	}
	return fmt.Sprintf("task %q %s %s: %v", f.TaskName, f.Hook, kind, f.Err)
}

// Unwrap returns the hook error.
func (f *HookFault) Unwrap() error {
	return f.Err
}

// Is matches ErrHookFault.
func (f *HookFault) Is(target error) bool {
	return target == ErrHookFault
}
