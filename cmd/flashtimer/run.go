package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/prompt"
	"github.com/jmylchreest/flashtimer/internal/session"
)

var runOpts struct {
	workMinutes  int
	breakMinutes int
}

// fault is an orchestration failure the user has to acknowledge.
type fault struct {
	err   error
	stack []byte
}

func (f *fault) Error() string { return f.err.Error() }
func (f *fault) Unwrap() error { return f.err }

func runTimer(cmd *cobra.Command, _ []string) error {
	work, err := workMinutes(cmd)
	if errors.Is(err, prompt.ErrCancelled) {
		logger.Info("work prompt cancelled, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}

	brk, err := breakMinutes(cmd)
	if err != nil {
		return err
	}

	sessions, err := buildSessions(cfg, work, brk)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary(sessions, time.Now()))

	err = runApp(cfg, sessions, logger)
	switch {
	case err == nil:
		logger.Info("all sessions complete")
		return nil
	case errors.Is(err, session.ErrInterrupted):
		logger.Info("interrupted, remaining sessions skipped")
		return nil
	}

	var f *fault
	if errors.As(err, &f) {
		reportFault(os.Stderr, os.Stdin, f)
		os.Exit(1)
	}
	return err
}

// workMinutes returns --worktime, or asks for it.
func workMinutes(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("worktime") {
		return checkMinutes("worktime", runOpts.workMinutes, config.MinWorkMinutes, config.MaxWorkMinutes)
	}
	return prompt.Ask(prompt.Options{
		Title:   "How long do you want to work?",
		Min:     config.MinWorkMinutes,
		Max:     config.MaxWorkMinutes,
		Default: cfg.Timer.WorkMinutes,
	})
}

// breakMinutes returns --breaktime, or asks for it. A cancelled prompt
// selects the configured default.
func breakMinutes(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("breaktime") {
		return checkMinutes("breaktime", runOpts.breakMinutes, config.MinBreakMinutes, config.MaxBreakMinutes)
	}
	n, err := prompt.Ask(prompt.Options{
		Title:   "How long do you want to rest?",
		Min:     config.MinBreakMinutes,
		Max:     config.MaxBreakMinutes,
		Default: cfg.Timer.BreakMinutes,
	})
	if errors.Is(err, prompt.ErrCancelled) {
		logger.Info("break prompt cancelled, using default", "minutes", cfg.Timer.BreakMinutes)
		return cfg.Timer.BreakMinutes, nil
	}
	return n, err
}

func checkMinutes(flag string, n, lo, hi int) (int, error) {
	if n < lo || n > hi {
		return 0, fmt.Errorf("--%s must be between %d and %d, got %d", flag, lo, hi, n)
	}
	return n, nil
}

// buildSessions returns the configured number of work/break pairs.
func buildSessions(c *config.Config, work, brk int) ([]session.Session, error) {
	colors := make(map[string]session.Color, 4)
	for name, value := range map[string]string{
		"work_background":  c.Colors.WorkBackground,
		"work_alert":       c.Colors.WorkAlert,
		"break_background": c.Colors.BreakBackground,
		"break_alert":      c.Colors.BreakAlert,
	} {
		color, err := session.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", name, err)
		}
		colors[name] = color
	}

	sessions := make([]session.Session, 0, 2*c.Timer.Cycles)
	for range c.Timer.Cycles {
		sessions = append(sessions,
			session.Minutes(session.KindWork, work, colors["work_alert"], colors["work_background"]),
			session.Minutes(session.KindBreak, brk, colors["break_alert"], colors["break_background"]),
		)
	}
	return sessions, nil
}

// summary describes the plan, e.g. "25m work, 5m break; finishes 30 minutes from now".
func summary(sessions []session.Session, now time.Time) string {
	if len(sessions) < 2 {
		return "nothing to run"
	}

	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}

	plan := fmt.Sprintf("%s work, %s break", shortMinutes(sessions[0].Duration), shortMinutes(sessions[1].Duration))
	if cycles := len(sessions) / 2; cycles > 1 {
		plan += fmt.Sprintf(" x%d", cycles)
	}
	return fmt.Sprintf("%s; finishes %s", plan, humanize.RelTime(now.Add(total), now, "ago", "from now"))
}

func shortMinutes(d time.Duration) string {
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

// reportFault prints f, with its stack when one was captured, and waits for
// Enter so the message stays readable when the terminal closes on exit.
func reportFault(w io.Writer, r io.Reader, f *fault) {
	fmt.Fprintf(w, "flashtimer failed: %v\n", f.err)
	if len(f.stack) > 0 {
		fmt.Fprintf(w, "\n%s\n", f.stack)
	}
	fmt.Fprint(w, "Press Enter to exit...")
	_, _ = bufio.NewReader(r).ReadString('\n')
}
