package theme

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a user theme for changes and reports the reloaded CSS.
// The theme's directory is watched so edits to imported partials and
// editors that replace files on save are both picked up.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger
	theme  *Theme

	watcher  *fsnotify.Watcher
	onChange func(css string)

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for theme. Call SetChangeCallback before Start.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		theme:  theme,
	}
}

// SetChangeCallback sets the function invoked with the new CSS whenever the
// theme content changes. It runs on the watcher goroutine.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching. Bundled themes have nothing on disk and are ignored.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.theme == nil || w.theme.IsBundled {
		w.logger.Debug("not watching bundled theme")
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create theme watcher: %w", err)
	}
	dir := filepath.Dir(w.theme.Path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(ctx, fsw, w.stopCh, w.doneCh)

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	fsw := w.watcher
	w.mu.Unlock()

	<-doneCh
	_ = fsw.Close()
	w.logger.Debug("theme watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".css" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.checkForChanges()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

// checkForChanges reloads the theme and fires the callback if its CSS changed.
func (w *Watcher) checkForChanges() {
	w.mu.Lock()
	theme := w.theme
	callback := w.onChange
	changed, err := theme.Reload()
	css := theme.CSS
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("failed to reload theme", "path", theme.Path, "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Info("theme file changed, reloading", "path", theme.Path)
	if callback != nil {
		callback(css)
	}
}
