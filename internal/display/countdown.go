package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/session"
)

// pangoScale converts points to Pango size units.
const pangoScale = 1024

// CountdownWindow is the small always-on-top MM:SS window shown for a session.
// It implements session.Display.
type CountdownWindow struct {
	app       *gtk.Application
	cfg       config.CountdownConfig
	countdown session.Countdown
	logger    *slog.Logger
}

// NewCountdownWindow creates a countdown display. countdown supplies the
// refresh cadence and the delay between the 00:00 frame and closing.
func NewCountdownWindow(app *gtk.Application, cfg config.CountdownConfig, countdown session.Countdown, logger *slog.Logger) *CountdownWindow {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountdownWindow{
		app:       app,
		cfg:       cfg,
		countdown: countdown,
		logger:    logger,
	}
}

// Run shows the countdown for s and blocks until it has run to 00:00 and the
// close delay has passed. Cancelling ctx tears the window down immediately.
func (w *CountdownWindow) Run(ctx context.Context, s session.Session) error {
	var (
		window *gtk.Window
		label  *gtk.Label
	)
	if err := invoke(ctx, func() {
		window, label = w.build(s)
	}); err != nil {
		// The build may still run; this close is queued behind it.
		post(func() {
			if window != nil {
				window.Close()
			}
		})
		return fmt.Errorf("failed to open countdown window: %w", err)
	}

	var closed atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.countdown.Run(s.Duration, func(remaining time.Duration) {
			if closed.Load() {
				return
			}
			text := w.markup(session.FormatRemaining(remaining))
			post(func() {
				if !closed.Load() {
					label.SetMarkup(text)
				}
			})
		})
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Debug("countdown interrupted", s.LogAttrs())
	}

	closed.Store(true)
	post(window.Close)

	return ctx.Err()
}

// build creates and presents the window. Must run on the main loop.
func (w *CountdownWindow) build(s session.Session) (*gtk.Window, *gtk.Label) {
	window := gtk.NewWindow()
	window.SetApplication(w.app)
	window.SetTitle("flashtimer")
	window.SetDecorated(false)
	window.SetResizable(false)
	window.SetDefaultSize(w.cfg.Width, w.cfg.Height)
	window.SetSizeRequest(w.cfg.Width, w.cfg.Height)
	window.SetOpacity(w.cfg.Opacity)
	window.AddCSSClass("flashtimer-countdown")
	window.AddCSSClass(backgroundClass(s.Background))

	if initOverlay(window, "flashtimer-countdown", 0) {
		placeOnMonitor(window, w.cfg.Monitor, w.logger)
		anchorCorner(window, config.Position(w.cfg.Position), w.cfg.OffsetX, w.cfg.OffsetY)
	} else {
		w.logger.Debug("layer-shell unsupported, countdown placement left to the compositor")
	}

	label := gtk.NewLabel("")
	label.AddCSSClass("countdown-label")
	label.SetHExpand(true)
	label.SetVExpand(true)
	label.SetMarkup(w.markup(session.FormatRemaining(s.Duration)))
	window.SetChild(label)

	window.Present()
	w.logger.Debug("countdown window opened", s.LogAttrs(), "position", w.cfg.Position)
	return window, label
}

func (w *CountdownWindow) markup(text string) string {
	return fmt.Sprintf(`<span size="%d">%s</span>`, w.cfg.FontSize*pangoScale, text)
}
