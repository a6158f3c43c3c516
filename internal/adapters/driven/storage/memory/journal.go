package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
)

// Ensure TaskJournal implements the interface.
var _ driven.TaskJournal = (*TaskJournal)(nil)

// TaskJournal is an in-memory implementation of driven.TaskJournal.
type TaskJournal struct {
	mu   sync.RWMutex
	runs []domain.TaskRun
}

// NewTaskJournal creates a new in-memory task journal.
func NewTaskJournal() *TaskJournal {
	return &TaskJournal{}
}

// Record stores one completed run.
func (j *TaskJournal) Record(_ context.Context, run *domain.TaskRun) error {
	if run == nil || run.TaskName == "" {
		return domain.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	stored := *run
	stored.Resources = append([]domain.Resource(nil), run.Resources...)
	j.runs = append(j.runs, stored)
	return nil
}

// List returns recent runs across all tasks, most recent first.
func (j *TaskJournal) List(_ context.Context, limit int) ([]domain.TaskRun, error) {
	return j.filter("", limit), nil
}

// ListByTask returns recent runs for one task, most recent first.
func (j *TaskJournal) ListByTask(_ context.Context, taskName string, limit int) ([]domain.TaskRun, error) {
	if taskName == "" {
		return nil, domain.ErrInvalidInput
	}
	return j.filter(taskName, limit), nil
}

func (j *TaskJournal) filter(taskName string, limit int) []domain.TaskRun {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []domain.TaskRun
	for _, r := range j.runs {
		if taskName == "" || r.TaskName == taskName {
			out = append(out, r)
		}
	}
	sortRecentFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Prune keeps the most recent 'keep' runs per task name.
func (j *TaskJournal) Prune(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	sortRecentFirst(j.runs)
	seen := make(map[string]int)
	kept := j.runs[:0]
	for _, r := range j.runs {
		if seen[r.TaskName] < keep {
			kept = append(kept, r)
		}
		seen[r.TaskName]++
	}
	j.runs = kept
	return nil
}

func sortRecentFirst(runs []domain.TaskRun) {
	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].EndedAt.After(runs[b].EndedAt)
	})
}
