package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workOptions() Options {
	return Options{Title: "Work session", Min: 1, Max: 120, Default: 25}
}

func typeKeys(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_SubmitValue(t *testing.T) {
	m := typeKeys(t, NewModel(workOptions()), "30")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, isQuit(cmd))

	value, done := m.Value()
	assert.True(t, done)
	assert.Equal(t, 30, value)
	assert.False(t, m.Cancelled())
}

func TestModel_EmptySubmitsDefault(t *testing.T) {
	m, cmd := press(t, NewModel(workOptions()), tea.KeyEnter)
	assert.True(t, isQuit(cmd))

	value, done := m.Value()
	assert.True(t, done)
	assert.Equal(t, 25, value)
}

func TestModel_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"too large", "121", "between 1 and 120"},
		{"zero", "0", "between 1 and 120"},
		{"not a number", "ab", "not a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeKeys(t, NewModel(workOptions()), tt.input)

			m, cmd := press(t, m, tea.KeyEnter)
			assert.False(t, isQuit(cmd))

			_, done := m.Value()
			assert.False(t, done)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestModel_RetryAfterError(t *testing.T) {
	m := typeKeys(t, NewModel(workOptions()), "500")
	m, _ = press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyCtrlU)
	assert.NotContains(t, m.View(), "between")

	m = typeKeys(t, m, "45")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, isQuit(cmd))

	value, done := m.Value()
	assert.True(t, done)
	assert.Equal(t, 45, value)
}

func TestModel_Cancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m, cmd := press(t, NewModel(workOptions()), k)
		assert.True(t, isQuit(cmd))
		assert.True(t, m.Cancelled())

		_, done := m.Value()
		assert.False(t, done)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(workOptions())

	view := m.View()
	assert.Contains(t, view, "Work session")
	assert.Contains(t, view, "Minutes (1-120, default 25)")
	assert.Contains(t, view, "esc")

	m, _ = press(t, m, tea.KeyEnter)
	assert.Empty(t, m.View())
}

func TestAsk_InvalidBounds(t *testing.T) {
	_, err := Ask(Options{Title: "x", Min: 10, Max: 5, Default: 7})
	require.Error(t, err)

	_, err = Ask(Options{Title: "x", Min: 1, Max: 5, Default: 9})
	require.Error(t, err)
}
