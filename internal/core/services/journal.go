package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
)

// Ensure JournalService implements the interface.
var _ driving.JournalService = (*JournalService)(nil)

// JournalService reads task run history.
type JournalService struct {
	journal driven.TaskJournal
}

// NewJournalService creates a journal service.
func NewJournalService(journal driven.TaskJournal) *JournalService {
	return &JournalService{journal: journal}
}

// Recent returns the most recent runs, filtered to one task if taskName is set.
func (s *JournalService) Recent(ctx context.Context, taskName string, limit int) ([]domain.TaskRun, error) {
	if taskName == "" {
		return s.journal.List(ctx, limit)
	}
	return s.journal.ListByTask(ctx, taskName, limit)
}

// Summary aggregates outcomes per task name over the most recent runs,
// ordered by task name.
func (s *JournalService) Summary(ctx context.Context, limit int) ([]driving.TaskSummary, error) {
	runs, err := s.journal.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	byName := make(map[string]*driving.TaskSummary)
	for _, run := range runs {
		sum, ok := byName[run.TaskName]
		if !ok {
			sum = &driving.TaskSummary{TaskName: run.TaskName}
			byName[run.TaskName] = sum
		}
		sum.Runs++
		sum.TotalTicks += run.Ticks
		switch run.Outcome {
		case domain.OutcomeFinished:
			sum.Finished++
		case domain.OutcomeInterrupted:
			sum.Interrupted++
		case domain.OutcomeFaulted:
			sum.Faulted++
		}
	}

	summaries := make([]driving.TaskSummary, 0, len(byName))
	for _, sum := range byName {
		summaries = append(summaries, *sum)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TaskName < summaries[j].TaskName
	})
	return summaries, nil
}

// Prune keeps the most recent runs per task.
func (s *JournalService) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidInput)
	}
	return s.journal.Prune(ctx, keep)
}
