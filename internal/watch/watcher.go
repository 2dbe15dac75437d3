// Package watch reruns a build whenever definition files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexanderramin/roadmap/internal/catalog"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc is run after each settled burst of changes.
type BuildFunc func(ctx context.Context) error

// Watcher monitors definition directories and calls a BuildFunc after
// changes. Builds run one at a time on the Run goroutine; a failed build is
// logged and watching continues.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	build    BuildFunc
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	trigger  chan struct{}
}

// New creates a Watcher over dirs. Close it when Run returns.
func New(dirs []string, debounce time.Duration, build BuildFunc, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		debounce: debounce,
		build:    build,
		logger:   logger,
		fsw:      fsw,
		trigger:  make(chan struct{}, 1),
	}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", d, err)
		}
		if err := fsw.Add(abs); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", abs, err)
		}
		w.dirs = append(w.dirs, abs)
	}
	return w, nil
}

// Trigger schedules a rebuild as if a definition file had changed.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching definitions", "dirs", w.dirs, "debounce", w.debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("definition changed", "file", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-w.trigger:
			schedule()

		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	started := time.Now()
	if err := w.build(ctx); err != nil {
		w.logger.Error("rebuild failed", "error", err)
		return
	}
	w.logger.Info("rebuilt", "duration_ms", time.Since(started).Milliseconds())
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return catalog.IsDefinitionPath(event.Name)
}
