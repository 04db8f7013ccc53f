package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pursuit-racer/internal/core"
)

// KeyMap holds the race key bindings. It implements help.KeyMap.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Restart key.Binding
	Pause   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "skip"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "race again"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Restart, k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Confirm, k.Restart, k.Pause},
		{k.Help, k.Quit},
	}
}

// Action translates a key message to a race action.
// Keys without a binding map to ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	}
	return core.ActionNone
}
