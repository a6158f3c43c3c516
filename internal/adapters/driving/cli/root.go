// Package cli provides the robotcore command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
	"github.com/team151/robotcore/internal/logger"
)

// ConfigWatcher signals each time the settings file changes on disk.
type ConfigWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Services are the dependencies injected by main.
type Services struct {
	Settings driving.SettingsService
	Journal  driving.JournalService

	// TaskJournal records runs made by the sim command. Optional.
	TaskJournal driven.TaskJournal

	// Watcher enables hot reload in realtime sim runs. Optional.
	Watcher ConfigWatcher
}

var (
	version = "dev"

	settingsService driving.SettingsService
	journalService  driving.JournalService
	taskJournal     driven.TaskJournal
	configWatcher   ConfigWatcher

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "robotcore",
	Short: "Drive control core for a differential drive robot",
	Long: `robotcore runs the cooperative task scheduler, drive mixer and
subsystems of a differential drive robot against simulated hardware.

Use it to preview mixer output, run timed simulations, tune settings and
inspect the task journal.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by commands.
func SetServices(s Services) {
	settingsService = s.Settings
	journalService = s.Journal
	taskJournal = s.TaskJournal
	configWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops a running simulation.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
