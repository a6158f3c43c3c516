package driving

import (
	"context"
	"time"

	"github.com/team151/robotcore/internal/core/domain"
)

// Scheduler runs tasks cooperatively and arbitrates resource ownership.
// At most one running task holds any resource at a time.
type Scheduler interface {
	// Schedule queues a task for admission at the next tick boundary.
	// A newly admitted task interrupts every running task that shares a resource.
	// Returns domain.ErrTaskTerminal if the instance already finished or was interrupted.
	Schedule(task Task) error

	// Cancel queues an interruption of the task at the next tick boundary.
	Cancel(task Task)

	// SetDefaultTask binds a fallback task to a resource. The scheduler admits
	// a fresh instance whenever no other task claims the resource.
	SetDefaultTask(resource domain.Resource, factory TaskFactory) error

	// Tick runs one scheduling cycle. It must not be called concurrently or
	// from inside a task hook.
	Tick(ctx context.Context) error

	// Start runs Tick every period until the context is cancelled or Stop
	// is called. Blocks until then.
	Start(ctx context.Context, period time.Duration) error

	// Stop ends the periodic loop started by Start.
	Stop() error

	// Running returns the running tasks in admission order.
	Running() []Task

	// Owner returns the task holding a resource.
	Owner(resource domain.Resource) (Task, bool)

	// IsScheduled reports whether the task is pending or running.
	IsScheduled(task Task) bool
}
