package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
)

// taskJournal implements driven.TaskJournal.
type taskJournal struct {
	store *Store
}

var _ driven.TaskJournal = (*taskJournal)(nil)

// Timestamps are stored in a fixed-width UTC layout so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record stores one completed run.
func (j *taskJournal) Record(ctx context.Context, run *domain.TaskRun) error {
	if run == nil || run.ID == "" || run.TaskName == "" {
		return domain.ErrInvalidInput
	}

	_, err := j.store.db.ExecContext(ctx, `
		INSERT INTO task_runs (id, task_name, resources, outcome, started_at, ended_at, ticks, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outcome = excluded.outcome,
			ended_at = excluded.ended_at,
			ticks = excluded.ticks,
			error = excluded.error
	`,
		run.ID,
		run.TaskName,
		joinResources(run.Resources),
		run.Outcome.String(),
		formatNullableTime(run.StartedAt),
		formatTime(run.EndedAt),
		run.Ticks,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("recording task run: %w", err)
	}
	return nil
}

// List returns recent runs across all tasks, most recent first.
func (j *taskJournal) List(ctx context.Context, limit int) ([]domain.TaskRun, error) {
	rows, err := j.store.db.QueryContext(ctx, `
		SELECT id, task_name, resources, outcome, started_at, ended_at, ticks, error
		FROM task_runs
		ORDER BY ended_at DESC
		LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying task runs: %w", err)
	}
	defer rows.Close()

	return scanTaskRuns(rows)
}

// ListByTask returns recent runs for one task, most recent first.
func (j *taskJournal) ListByTask(ctx context.Context, taskName string, limit int) ([]domain.TaskRun, error) {
	if taskName == "" {
		return nil, domain.ErrInvalidInput
	}

	rows, err := j.store.db.QueryContext(ctx, `
		SELECT id, task_name, resources, outcome, started_at, ended_at, ticks, error
		FROM task_runs
		WHERE task_name = ?
		ORDER BY ended_at DESC
		LIMIT ?
	`, taskName, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying task runs: %w", err)
	}
	defer rows.Close()

	return scanTaskRuns(rows)
}

// Prune removes old runs beyond the retention limit.
// Keeps the most recent 'keep' runs per task name.
func (j *taskJournal) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := j.store.db.ExecContext(ctx, `
		DELETE FROM task_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY task_name ORDER BY ended_at DESC) as rn
				FROM task_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning task runs: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

func scanTaskRuns(rows *sql.Rows) ([]domain.TaskRun, error) {
	var runs []domain.TaskRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.TaskRun
		var resources, outcome, endedAt string
		var startedAt, errMsg sql.NullString

		if err := rows.Scan(&run.ID, &run.TaskName, &resources, &outcome,
			&startedAt, &endedAt, &run.Ticks, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning task run: %w", err)
		}

		run.Resources = splitResources(resources)
		run.Outcome = domain.TaskOutcome(outcome)
		run.StartedAt = parseNullableTime(startedAt)
		run.EndedAt = parseNullableTime(sql.NullString{String: endedAt, Valid: true})
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task runs: %w", err)
	}
	return runs, nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func joinResources(resources []domain.Resource) string {
	parts := make([]string, len(resources))
	for i, r := range resources {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

func splitResources(s string) []domain.Resource {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	resources := make([]domain.Resource, len(parts))
	for i, p := range parts {
		resources[i] = domain.Resource(p)
	}
	return resources
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a stored timestamp.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
