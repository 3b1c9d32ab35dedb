package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model of a bounded integer prompt.
type Model struct {
	opts  Options
	input textinput.Model
	help  help.Model
	keys  KeyMap

	err       string
	value     int
	done      bool
	cancelled bool
}

// NewModel creates a focused prompt model.
func NewModel(opts Options) Model {
	input := textinput.New()
	input.Placeholder = strconv.Itoa(opts.Default)
	input.CharLimit = len(strconv.Itoa(opts.Max))
	input.Width = input.CharLimit + 1
	input.Prompt = "> "
	input.Focus()

	return Model{
		opts:  opts,
		input: input,
		help:  help.New(),
		keys:  DefaultKeyMap(),
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			value, err := m.parse()
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			m.err = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parse validates the typed value. Empty input selects the default.
func (m Model) parse() (int, error) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m.opts.Default, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of minutes", raw)
	}
	if n < m.opts.Min || n > m.opts.Max {
		return 0, fmt.Errorf("enter a value between %d and %d", m.opts.Min, m.opts.Max)
	}
	return n, nil
}

// View renders the prompt.
func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("Minutes (%d-%d, default %d)", m.opts.Min, m.opts.Max, m.opts.Default)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Value returns the accepted value once the prompt has finished.
func (m Model) Value() (int, bool) {
	return m.value, m.done
}

// Cancelled reports whether the user dismissed the prompt.
func (m Model) Cancelled() bool {
	return m.cancelled
}
