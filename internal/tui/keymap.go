package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the review session.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Catalog editing
	Toggle    key.Binding
	ScoreUp   key.Binding
	ScoreDown key.Binding

	// Review flags
	Irrelevant  key.Binding
	Profane     key.Binding
	EditRewrite key.Binding
	OverallUp   key.Binding
	OverallDown key.Binding

	// Decisions
	Accept   key.Binding
	Override key.Binding
	Skip     key.Binding

	// Views
	ToggleDiff key.Binding
	ToggleHelp key.Binding

	// Application
	Confirm   key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("Space/x", "toggle selection"),
		),
		ScoreUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "raise score"),
		),
		ScoreDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "lower score"),
		),
		Irrelevant: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle irrelevant"),
		),
		Profane: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle profane"),
		),
		EditRewrite: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit rewritten comment"),
		),
		OverallUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "raise overall score"),
		),
		OverallDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "lower overall score"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept labels"),
		),
		Override: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "override with corrections"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip review"),
		),
		ToggleDiff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle change summary"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("Enter/y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Accept, k.Override, k.Skip, k.ToggleHelp, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.ScoreUp, k.ScoreDown, k.OverallUp, k.OverallDown},
		{k.Irrelevant, k.Profane, k.EditRewrite},
		{k.Accept, k.Override, k.Skip},
		{k.ToggleDiff, k.ToggleHelp, k.Quit},
	}
}
