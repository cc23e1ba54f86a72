package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings. List navigation
// lives in components.ListKeys.
type KeyMap struct {
	// Actions
	Quit            key.Binding
	Help            key.Binding
	Escape          key.Binding
	Add             key.Binding
	Edit            key.Binding
	Delete          key.Binding
	ToggleInspector key.Binding
	DetailsDown     key.Binding
	DetailsUp       key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add movie"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle details"),
		),
		DetailsDown: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "scroll details down"),
		),
		DetailsUp: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "scroll details up"),
		),

		// Confirmations
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
