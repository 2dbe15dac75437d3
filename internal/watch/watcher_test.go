package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roadmap/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startWatcher runs w until the test ends.
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
}

func TestWatcher_DebouncesTriggers(t *testing.T) {
	var builds atomic.Int32
	w, err := New([]string{t.TempDir()}, 50*time.Millisecond, func(context.Context) error {
		builds.Add(1)
		return nil
	}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	for i := 0; i < 5; i++ {
		w.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())
}

func TestWatcher_KeepsRunningAfterFailure(t *testing.T) {
	var builds atomic.Int32
	w, err := New([]string{t.TempDir()}, 10*time.Millisecond, func(context.Context) error {
		if builds.Add(1) == 1 {
			return errors.New("backward dependency")
		}
		return nil
	}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	w.Trigger()
	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	w.Trigger()
	assert.Eventually(t, func() bool { return builds.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestWatcher_RebuildsOnDefinitionWrite(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 1)
	w, err := New([]string{dir}, 20*time.Millisecond, func(context.Context) error {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
		return nil
	}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	testutil.WriteFile(t, dir, "alpha.yaml", "name: Alpha\n")

	select {
	case <-rebuilt:
	case <-time.After(3 * time.Second):
		t.Fatal("no rebuild after writing a definition")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, 0, func(context.Context) error { return nil }, nil)
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "/v/alpha.yaml", Op: fsnotify.Write}, true},
		{"json create", fsnotify.Event{Name: "/v/beta.json", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/v/alpha.yml", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/v/alpha.yaml", Op: fsnotify.Chmod}, false},
		{"editor swap file", fsnotify.Event{Name: "/v/.alpha.yaml.swp", Op: fsnotify.Write}, false},
		{"underscore file", fsnotify.Event{Name: "/v/_init.yaml", Op: fsnotify.Write}, false},
		{"other extension", fsnotify.Event{Name: "/v/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}
