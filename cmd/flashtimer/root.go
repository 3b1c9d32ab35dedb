package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/flashtimer/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd runs the timer when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "flashtimer",
	Short: "Pomodoro timer that flashes the screen when time is up",
	Long: `flashtimer runs a work session followed by a break.

A small countdown window stays on top of other windows while a session runs.
When the time is up the whole screen flashes: red blinks after work, green
fades in after a break.

Session lengths are taken from --worktime and --breaktime, or asked for on the
terminal when the flags are absent.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger("warn")

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		setupLogger(cfg.Log.Level)
		return nil
	},
	RunE: runTimer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/flashtimer/config.toml, or $"+config.EnvConfigPath+")")

	rootCmd.Flags().IntVar(&runOpts.workMinutes, "worktime", 0,
		fmt.Sprintf("Work session length in minutes (%d-%d)", config.MinWorkMinutes, config.MaxWorkMinutes))
	rootCmd.Flags().IntVar(&runOpts.breakMinutes, "breaktime", 0,
		fmt.Sprintf("Break length in minutes (%d-%d)", config.MinBreakMinutes, config.MaxBreakMinutes))
}

// setupLogger configures the global slog logger.
func setupLogger(level string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if globalOpts.verbose {
		opts.Level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
