package driving

import (
	"context"

	"github.com/team151/robotcore/internal/core/domain"
)

// JournalService exposes task run history.
type JournalService interface {
	// Recent returns the most recent runs, optionally filtered to one task.
	Recent(ctx context.Context, taskName string, limit int) ([]domain.TaskRun, error)

	// Summary aggregates outcomes per task over the most recent runs.
	Summary(ctx context.Context, limit int) ([]TaskSummary, error)

	// Prune keeps the most recent runs per task and deletes the rest.
	Prune(ctx context.Context, keep int) error
}

// TaskSummary counts outcomes for one task name.
type TaskSummary struct {
	TaskName    string
	Runs        int
	Finished    int
	Interrupted int
	Faulted     int
	TotalTicks  int
}
