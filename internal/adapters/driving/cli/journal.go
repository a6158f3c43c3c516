package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/team151/robotcore/internal/core/domain"
)

var (
	journalTask         string
	journalLimit        int
	journalJSON         bool
	journalSummaryLimit int
	journalKeep         int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent task runs",
	Long: `Lists task runs recorded by the scheduler, most recent first.

Each run shows when the task was admitted, how it ended (finished,
interrupted or faulted), how many times it executed and any fault message.`,
	Args: cobra.NoArgs,
	RunE: runJournalRecent,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise outcomes per task",
	Args:  cobra.NoArgs,
	RunE:  runJournalSummary,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old task runs",
	Long:  `Keeps the most recent runs of each task and deletes the rest.`,
	Args:  cobra.NoArgs,
	RunE:  runJournalPrune,
}

func init() {
	journalCmd.Flags().StringVarP(&journalTask, "task", "t", "", "only show runs of this task")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of runs")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "output runs as JSON")
	journalSummaryCmd.Flags().IntVarP(&journalSummaryLimit, "limit", "n", 0, "only count the most recent runs (0 for all)")
	journalPruneCmd.Flags().IntVar(&journalKeep, "keep", -1, "runs to keep per task (default from settings)")
	journalCmd.AddCommand(journalSummaryCmd)
	journalCmd.AddCommand(journalPruneCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalRecent(cmd *cobra.Command, _ []string) error {
	if journalService == nil {
		return errors.New("journal service not configured")
	}

	runs, err := journalService.Recent(cmd.Context(), journalTask, journalLimit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if journalJSON {
		return outputRunsJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No task runs recorded.")
		return nil
	}

	cmd.Printf("%-23s  %-22s  %-11s  %6s  %10s  %s\n", "STARTED", "TASK", "OUTCOME", "TICKS", "DURATION", "ERROR")
	for i := range runs {
		r := &runs[i]
		cmd.Printf("%-23s  %-22s  %s  %6d  %10s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05.000"),
			r.TaskName,
			renderOutcome(r.Outcome, 11),
			r.Ticks,
			r.Duration().Round(time.Millisecond),
			r.Error,
		)
	}
	return nil
}

func outputRunsJSON(cmd *cobra.Command, runs []domain.TaskRun) error {
	if runs == nil {
		runs = []domain.TaskRun{}
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runJournalSummary(cmd *cobra.Command, _ []string) error {
	if journalService == nil {
		return errors.New("journal service not configured")
	}

	summaries, err := journalService.Summary(cmd.Context(), journalSummaryLimit)
	if err != nil {
		return fmt.Errorf("failed to summarise journal: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No task runs recorded.")
		return nil
	}

	cmd.Printf("%-22s  %5s  %8s  %11s  %7s  %8s\n", "TASK", "RUNS", "FINISHED", "INTERRUPTED", "FAULTED", "TICKS")
	for _, s := range summaries {
		cmd.Printf("%-22s  %5d  %8d  %11d  %7d  %8d\n",
			s.TaskName, s.Runs, s.Finished, s.Interrupted, s.Faulted, s.TotalTicks)
	}
	return nil
}

func runJournalPrune(cmd *cobra.Command, _ []string) error {
	if journalService == nil {
		return errors.New("journal service not configured")
	}

	keep := journalKeep
	if keep < 0 {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		keep = settings.Scheduler.JournalKeep
	}

	if err := journalService.Prune(cmd.Context(), keep); err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	cmd.Printf("Kept the %d most recent runs of each task.\n", keep)
	return nil
}
