package squash

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings shown while a squash is running
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default key map
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// Keys is a global instance of the keymap for use in the model
var Keys = DefaultKeyMap()

// ShortHelp returns the short help text for the help bubble
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns the full help text for the help bubble
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}
