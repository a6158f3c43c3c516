package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_HandleFsEvent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	w := NewWatcher(store)

	tests := []struct {
		name   string
		path   string
		op     fsnotify.Op
		reload bool
	}{
		{"write", store.Path(), fsnotify.Write, true},
		{"create", store.Path(), fsnotify.Create, true},
		{"rename", store.Path(), fsnotify.Rename, true},
		{"write and chmod", store.Path(), fsnotify.Write | fsnotify.Chmod, true},
		{"chmod only", store.Path(), fsnotify.Chmod, false},
		{"remove", store.Path(), fsnotify.Remove, false},
		{"other file", filepath.Join(filepath.Dir(store.Path()), "other.toml"), fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.reload, got)
		})
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("drive.turn_gain", 0.75))

	w := NewWatcher(store)
	w.debounce = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads, err := w.Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(store.Path(), []byte("[drive]\nturn_gain = 0.5\n"), 0600)
	}()

	select {
	case <-reloads:
		assert.Equal(t, 0.5, store.GetFloat("drive.turn_gain"))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcher_InvalidFileKeepsSettings(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("drive.turn_gain", 0.75))

	w := NewWatcher(store)
	w.debounce = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads, err := w.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("not toml ]["), 0600))

	select {
	case <-reloads:
		t.Fatal("invalid file must not signal a reload")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 0.75, store.GetFloat("drive.turn_gain"))
}

func TestWatcher_ClosesChannelOnCancel(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	w := NewWatcher(store)
	ctx, cancel := context.WithCancel(context.Background())
	reloads, err := w.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-reloads:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatcher_CloseWithoutWatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, NewWatcher(store).Close())
}
