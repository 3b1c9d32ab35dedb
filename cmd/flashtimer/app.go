package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/flashtimer/internal/audio"
	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/display"
	"github.com/jmylchreest/flashtimer/internal/notify"
	"github.com/jmylchreest/flashtimer/internal/session"
	"github.com/jmylchreest/flashtimer/internal/theme"
)

const appID = "io.github.jmylchreest.flashtimer"

// notifyTimeout bounds a single desktop notification call.
const notifyTimeout = 5 * time.Second

// runApp runs sessions inside a GTK application and returns once the main
// loop has stopped. SIGINT and SIGTERM interrupt the run.
func runApp(cfg *config.Config, sessions []session.Session, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Several timers may run side by side.
	app := adw.NewApplication(appID, gio.ApplicationNonUnique)

	var (
		themeLoader  *theme.Loader
		audioManager *audio.Manager
		bus          *notify.BusSender
		running      atomic.Bool
	)
	result := make(chan error, 1)

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = theme.NewLoader(logger)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "theme", cfg.Theme.Name, "error", err)
		}
		themeLoader.Apply()
		if cfg.Theme.HotReload {
			themeLoader.StartHotReload(ctx)
		}

		audioManager = audio.NewManager(cfg, logger)
		go audioManager.Start(ctx)

		bus = notify.NewBusSender()
		notifier := notify.NewNotifier(bus, cfg.Notify.Enabled, cfg.Notify.Timeout.Duration(), logger)

		// GTK apps quit when all windows are closed, and no window is open
		// between sessions.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)

		runner := newRunner(&app.Application, cfg, audioManager, notifier, logger)
		go func() {
			result <- runSessions(ctx, runner, sessions)
			glib.IdleAdd(app.Quit)
		}()
	})

	app.ConnectShutdown(func() {
		logger.Debug("application shutting down")
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if bus != nil {
			_ = bus.Close()
		}
		running.Store(false)
	})

	// Our own flags are not GApplication options.
	status := app.Run(os.Args[:1])

	// The main loop can stop before the runner, e.g. when the session bus
	// closes. Interrupt it and wait for the bounded join.
	stop()
	select {
	case err := <-result:
		if status != 0 && err == nil {
			return fmt.Errorf("application exited with status %d", status)
		}
		return err
	case <-time.After(cfg.Timer.JoinTimeout.Duration() + time.Second):
		return fmt.Errorf("application exited with status %d before sessions finished", status)
	}
}

// newRunner wires the countdown window and the expiry alert into a session runner.
func newRunner(app *gtk.Application, cfg *config.Config, chimes *audio.Manager, notifier *notify.Notifier, logger *slog.Logger) *session.Runner {
	countdown := display.NewCountdownWindow(app, cfg.Countdown, session.Countdown{
		Interval:   cfg.Timer.RefreshInterval.Duration(),
		CloseDelay: cfg.Timer.CloseDelay.Duration(),
	}, logger)

	return session.NewRunner(
		countdown,
		expiryAlert(app, cfg, chimes, notifier, logger),
		cfg.Timer.PollInterval.Duration(),
		session.RunnerOptions{
			JoinTimeout:  cfg.Timer.JoinTimeout.Duration(),
			SessionPause: cfg.Timer.SessionPause.Duration(),
			OnState: func(from, to session.State) {
				logger.Info("session state changed", "from", from, "to", to)
			},
		},
		logger,
	)
}

// expiryAlert flashes the screen in the session's alert color. The chime and
// the desktop notification run alongside the flash and never fail it.
func expiryAlert(app *gtk.Application, cfg *config.Config, chimes *audio.Manager, notifier *notify.Notifier, logger *slog.Logger) session.AlertFunc {
	flasher := session.Flasher{
		Steps:    cfg.Flash.Steps,
		Interval: cfg.Flash.Interval.Duration(),
		Levels: session.Levels{
			BlinkHigh: cfg.Flash.BlinkHigh,
			BlinkLow:  cfg.Flash.BlinkLow,
			FadeStart: cfg.Flash.FadeStart,
			FadeMax:   cfg.Flash.FadeMax,
		},
		Logger: logger,
	}

	return func(ctx context.Context, s session.Session) error {
		started := time.Now().Add(-s.Duration)

		go func() {
			if err := chimes.Chime(s); err != nil {
				logger.Warn("failed to play chime", "kind", s.Kind, "error", err)
			}
		}()
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := notifier.SessionExpired(nctx, s, started); err != nil {
				logger.Warn("failed to send desktop notification", "kind", s.Kind, "error", err)
			}
		}()

		surface := display.NewFlashSurface(app, cfg.Countdown.Monitor, logger)
		return flasher.Flash(ctx, surface, s.Alert)
	}
}

// runSessions runs the sessions and converts unexpected failures into faults.
// The stack is the one captured where a panic was recovered; plain errors
// carry none.
func runSessions(ctx context.Context, runner *session.Runner, sessions []session.Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &fault{err: fmt.Errorf("panic: %v", r), stack: debug.Stack()}
		}
	}()

	err = runner.Run(ctx, sessions...)
	if err == nil || errors.Is(err, session.ErrInterrupted) {
		return err
	}

	f := &fault{err: err}
	var pe *session.PanicError
	if errors.As(err, &pe) {
		f.stack = pe.Stack
	}
	return f
}
