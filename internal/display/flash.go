package display

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/flashtimer/internal/session"
)

// openTimeout bounds how long Open waits for the main loop to build the surface.
const openTimeout = 2 * time.Second

// FlashSurface is a full-screen, topmost, borderless window filled with one
// color. It implements session.Surface. A surface is opened once.
type FlashSurface struct {
	app     *gtk.Application
	monitor int
	logger  *slog.Logger

	window *gtk.Window // main loop only
}

// NewFlashSurface creates a flash surface on the given monitor (0 = compositor default).
func NewFlashSurface(app *gtk.Application, monitor int, logger *slog.Logger) *FlashSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashSurface{
		app:     app,
		monitor: monitor,
		logger:  logger,
	}
}

// Open presents the surface in color at the given opacity.
func (f *FlashSurface) Open(color session.Color, opacity float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := invoke(ctx, func() { f.build(color, opacity) }); err != nil {
		return fmt.Errorf("failed to open %s flash: %w", color, err)
	}
	return nil
}

// SetOpacity changes the surface opacity.
func (f *FlashSurface) SetOpacity(opacity float64) {
	post(func() {
		if f.window != nil {
			f.window.SetOpacity(opacity)
		}
	})
}

// Close removes the surface. It is queued behind a pending build, so it also
// removes a surface whose Open gave up before the window appeared.
func (f *FlashSurface) Close() {
	post(func() {
		if f.window != nil {
			f.window.Close()
			f.window = nil
		}
	})
}

// build creates and presents the window. Must run on the main loop.
func (f *FlashSurface) build(color session.Color, opacity float64) {
	window := gtk.NewWindow()
	window.SetApplication(f.app)
	window.SetTitle("flashtimer")
	window.SetDecorated(false)
	window.SetCanFocus(false)
	window.AddCSSClass("flashtimer-flash")
	window.AddCSSClass(flashClass(color))
	window.SetOpacity(opacity)

	// Exclusive zone -1 covers panels as well.
	if initOverlay(window, "flashtimer-flash", -1) {
		placeOnMonitor(window, f.monitor, f.logger)
		anchorFill(window)
	} else {
		window.Fullscreen()
	}

	window.Present()
	f.window = window
	f.logger.Debug("flash surface opened", "color", color, "opacity", opacity)
}
