// Command robotcore runs the robot control core against simulated hardware.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/team151/robotcore/internal/adapters/driven/config/file"
	"github.com/team151/robotcore/internal/adapters/driven/storage/sqlite"
	"github.com/team151/robotcore/internal/adapters/driving/cli"
	"github.com/team151/robotcore/internal/core/services"
	"github.com/team151/robotcore/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ROBOTCORE_HOME relocates config and journal, e.g. for a robot's data partition.
	var configDir, dataDir string
	if home := os.Getenv("ROBOTCORE_HOME"); home != "" {
		configDir = home
		dataDir = filepath.Join(home, "data")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		logger.Error("failed to open config: %v", err)
		return 1
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Error("failed to open journal: %v", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close journal: %v", err)
		}
	}()

	watcher := file.NewWatcher(configStore)
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("failed to close config watcher: %v", err)
		}
	}()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Settings:    services.NewSettingsService(configStore),
		Journal:     services.NewJournalService(store.TaskJournal()),
		TaskJournal: store.TaskJournal(),
		Watcher:     watcher,
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
