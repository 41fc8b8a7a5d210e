// Package tui provides the terminal user interface for taskman.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeList    Mode = iota // Task list navigation
	ModeSearch              // Typing in the search input
	ModeSort                // Sort mode picker
	ModeConfirm             // Delete confirmation
	ModeDetail              // Single task view
	ModeEdit                // Editing the task shown in detail
	ModeCreate              // New task form
	ModeHelp                // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeSearch:
		return "search"
	case ModeSort:
		return "sort"
	case ModeConfirm:
		return "confirm"
	case ModeDetail:
		return "detail"
	case ModeEdit:
		return "edit"
	case ModeCreate:
		return "create"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeSearch, ModeEdit, ModeCreate:
		return true
	case ModeList, ModeSort, ModeConfirm, ModeDetail, ModeHelp:
		return false
	}
	return false
}
