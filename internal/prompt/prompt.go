// Package prompt asks for session lengths on the terminal.
package prompt

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Options describes a bounded integer prompt.
type Options struct {
	Title   string
	Min     int
	Max     int
	Default int
}

// Ask runs an inline prompt until the user enters a value in range or
// cancels. Extra program options let callers redirect input and output.
func Ask(opts Options, programOpts ...tea.ProgramOption) (int, error) {
	if opts.Min > opts.Max || opts.Default < opts.Min || opts.Default > opts.Max {
		return 0, fmt.Errorf("invalid prompt bounds %d-%d with default %d", opts.Min, opts.Max, opts.Default)
	}

	final, err := tea.NewProgram(NewModel(opts), programOpts...).Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Cancelled() {
		return 0, ErrCancelled
	}
	value, done := m.Value()
	if !done {
		return 0, ErrCancelled
	}
	return value, nil
}
