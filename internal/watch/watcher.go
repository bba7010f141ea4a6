// Package watch reloads the corpus when its snapshot files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Reloader reloads the resident corpus.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher watches snapshot files and triggers a debounced reload. Parent
// directories are watched rather than the files themselves, so atomic
// replace-by-rename is seen as a Create of the target name.
type Watcher struct {
	reloader Reloader
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for the given snapshot files.
func New(reloader Reloader, files []string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		reloader: reloader,
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		logger:   logger,
	}
	seen := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = filepath.Clean(f)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w
}

// Run blocks until ctx is canceled, reloading after each burst of changes.
// Reload failures are logged; the watcher keeps running.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching corpus snapshots", zap.Strings("dirs", w.dirs))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("snapshot changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if err := w.reloader.Reload(ctx); err != nil {
				w.logger.Error("corpus reload after change failed", zap.Error(err))
				continue
			}
			w.logger.Info("corpus reloaded after snapshot change")
		}
	}
}

// relevant reports whether ev touches a watched snapshot in a way that
// changes its content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		abs = filepath.Clean(ev.Name)
	}
	_, ok := w.files[abs]
	return ok
}
