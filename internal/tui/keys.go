package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Screens
	GoHome    key.Binding
	GoBrowse  key.Binding
	GoSearch  key.Binding
	GoLanes   key.Binding
	GoHistory key.Binding
	GoAdmin   key.Binding

	// Actions
	Quit         key.Binding
	Help         key.Binding
	Escape       key.Binding
	Filter       key.Binding
	Genre        key.Binding
	Sort         key.Binding
	Order        key.Binding
	Refresh      key.Binding
	Rate         key.Binding
	Unrate       key.Binding
	MarkWatched  key.Binding
	VectorToggle key.Binding
	Login        key.Binding
	Logout       key.Binding
	Activate     key.Binding
	Train        key.Binding
	Tab          key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "back"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev page"),
		),

		// Screens
		GoHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		GoBrowse: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "browse"),
		),
		GoSearch: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "search"),
		),
		GoLanes: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "models"),
		),
		GoHistory: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "history"),
		),
		GoAdmin: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "admin"),
		),

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
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Genre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "genre"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "order"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Rate: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rate"),
		),
		Unrate: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove rating"),
		),
		MarkWatched: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "mark watched"),
		),
		VectorToggle: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "semantic search"),
		),
		Login: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "sign in"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),
		Activate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "activate model"),
		),
		Train: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "train model"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
