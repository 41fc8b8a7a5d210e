package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Enter    key.Binding // Open the selected task

	// Task management
	New            key.Binding // Create new task
	Edit           key.Binding // Edit task (detail view)
	Delete         key.Binding // Delete task
	ToggleDone     key.Binding // Toggle done <-> todo
	ToggleProgress key.Binding // Toggle in progress <-> todo

	// View
	Search         key.Binding // Enter search mode
	FilterStatus   key.Binding // Cycle status filter
	FilterPriority key.Binding // Cycle priority filter
	Sort           key.Binding // Open sort picker
	ClearFilters   key.Binding // Reset search, filters and sort
	Refresh        key.Binding // Reconnect to the store after a failure
	Help           key.Binding // Show help

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding // Change an option field
	Save      key.Binding

	// General
	Quit    key.Binding // Quit application
	Escape  key.Binding // Cancel/back
	Confirm key.Binding // Confirm action (in confirm mode)
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "done"),
		),
		ToggleProgress: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "in progress"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status filter"),
		),
		FilterPriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "change"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.New, k.ToggleDone, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.Enter},                                 // Navigation
		{k.New, k.Edit, k.Delete, k.ToggleDone, k.ToggleProgress},                       // Task management
		{k.Search, k.FilterStatus, k.FilterPriority, k.Sort, k.ClearFilters, k.Refresh}, // View
		{k.NextField, k.PrevField, k.Cycle, k.Save},                                     // Forms
		{k.Help, k.Escape, k.Quit},                                                      // General
	}
}

// formKeyMap is the help shown under the edit and create forms.
type formKeyMap struct {
	keys KeyMap
}

func (f formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{f.keys.NextField, f.keys.Cycle, f.keys.Save, f.keys.Escape}
}

func (f formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}
