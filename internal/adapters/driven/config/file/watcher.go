package file

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/team151/robotcore/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk and signals
// each successful reload.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *ConfigStore) *Watcher {
	return &Watcher{
		store:    store,
		debounce: DefaultDebounce,
	}
}

// Watch starts watching and returns a channel that receives a value after
// each successful reload. The channel is closed when ctx is done.
// The directory is watched rather than the file so that editors which
// replace the file on save are still seen.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.store.Path())); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.store.Path()), err)
	}

	w.mu.Lock()
	w.watcher = fsw
	w.mu.Unlock()

	reloads := make(chan struct{}, 1)
	go w.run(ctx, fsw, reloads)
	return reloads, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, reloads chan<- struct{}) {
	defer close(reloads)
	defer fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.handleFsEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher: %v", err)

		case <-timer.C:
			if err := w.store.Load(); err != nil {
				logger.Warn("config watcher: reload of %s failed, keeping previous settings: %v", w.store.Path(), err)
				continue
			}
			logger.Debug("config watcher: reloaded %s", w.store.Path())
			select {
			case reloads <- struct{}{}:
			default:
			}
		}
	}
}

// handleFsEvent reports whether the event should trigger a reload.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}
