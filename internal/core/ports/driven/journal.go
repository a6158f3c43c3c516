package driven

import (
	"context"

	"github.com/team151/robotcore/internal/core/domain"
)

// TaskJournal persists task run history for post-match review.
type TaskJournal interface {
	// Record stores one completed run.
	Record(ctx context.Context, run *domain.TaskRun) error

	// List returns recent runs across all tasks.
	// Results are ordered by end time descending (most recent first).
	List(ctx context.Context, limit int) ([]domain.TaskRun, error)

	// ListByTask returns recent runs for one task name.
	// Results are ordered by end time descending (most recent first).
	ListByTask(ctx context.Context, taskName string, limit int) ([]domain.TaskRun, error)

	// Prune removes old runs beyond the retention limit.
	// Keeps the most recent 'keep' runs per task name.
	Prune(ctx context.Context, keep int) error
}
