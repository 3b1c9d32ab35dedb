package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a theme to the default display through a CSS provider and
// keeps it current when the user edits the file.
//
// LoadTheme and Apply must be called on the GTK main loop. Hot-reloaded CSS is
// marshalled back to the main loop.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	watcher   *Watcher
}

// NewLoader creates a loader reading user themes from ThemesDir.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// LoadTheme resolves name (user themes first, then bundled) and loads it into
// the provider. An unknown name loads the default theme and returns the
// lookup error.
func (l *Loader) LoadTheme(name string) error {
	t, err := Resolve(name, l.themesDir)
	if t == nil {
		return err
	}

	l.mu.Lock()
	l.theme = t
	l.mu.Unlock()

	l.provider.LoadFromString(t.CSS)
	if t.IsBundled {
		l.logger.Debug("loaded bundled theme", "name", t.Name)
	} else {
		l.logger.Info("loaded user theme", "name", t.Name, "path", t.Path)
	}
	return err
}

// Apply installs the provider on the default display.
func (l *Loader) Apply() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.logger.Debug("applied theme to display", "name", l.CurrentTheme())
}

// StartHotReload watches the loaded user theme until ctx is done or
// StopHotReload is called.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.IsBundled {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}
	if l.watcher != nil {
		l.watcher.Stop()
	}

	name := l.theme.Name
	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded theme", "name", name)
		})
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}

// CurrentTheme returns the name of the loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}
