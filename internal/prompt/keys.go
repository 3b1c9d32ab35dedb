package prompt

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the duration prompt.
type KeyMap struct {
	Submit key.Binding
	Clear  key.Binding
	Cancel key.Binding
}

// ShortHelp returns the bindings shown under the input.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Clear, k.Cancel}
}

// FullHelp returns all bindings grouped into columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Clear, k.Cancel}}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
