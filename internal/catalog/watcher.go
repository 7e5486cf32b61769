package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc is invoked with the freshly loaded catalog after the
// watched file changes. Implementations typically call Catalog.Replace
// and then rebuild derived state (vectorizer vocabulary and cache).
type ReloadFunc func(*Catalog)

// Watcher reloads the catalog file when it changes on disk.
type Watcher struct {
	path     string
	onReload ReloadFunc
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the given catalog file.
func NewWatcher(path string, onReload ReloadFunc, logger *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog: watcher requires a path")
	}
	if onReload == nil {
		return nil, fmt.Errorf("catalog: watcher requires a reload callback")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Run watches until ctx is cancelled. Editors replace files rather than
// write in place, so the parent directory is watched and events are
// filtered by name.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", w.path, err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cat, err := Load(w.path)
	if err != nil {
		// Keep serving the previous catalog on a bad reload.
		w.logger.Warn("catalog reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("catalog reloaded", zap.String("path", w.path), zap.Int("items", cat.Len()))
	w.onReload(cat)
}
