package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskman/internal/domain"
)

// palette holds the colors the styles are built from.
type palette struct {
	accent   lipgloss.Color
	dim      lipgloss.Color
	text     lipgloss.Color
	focus    lipgloss.Color
	due      lipgloss.Color
	danger   lipgloss.Color
	status   map[domain.Status]lipgloss.Color
	priority map[domain.Priority]lipgloss.Color
}

var defaultPalette = palette{
	accent: lipgloss.Color("#5E81AC"),
	dim:    lipgloss.Color("#7B8394"),
	text:   lipgloss.Color("#E5E9F0"),
	focus:  lipgloss.Color("#EBCB8B"),
	due:    lipgloss.Color("#88C0D0"),
	danger: lipgloss.Color("#BF616A"),
	status: map[domain.Status]lipgloss.Color{
		domain.StatusTodo:       lipgloss.Color("#81A1C1"),
		domain.StatusInProgress: lipgloss.Color("#EBCB8B"),
		domain.StatusDone:       lipgloss.Color("#A3BE8C"),
	},
	priority: map[domain.Priority]lipgloss.Color{
		domain.PriorityHigh:   lipgloss.Color("#D08770"),
		domain.PriorityMedium: lipgloss.Color("#EBCB8B"),
		domain.PriorityLow:    lipgloss.Color("#8FBCBB"),
	},
}

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	status   map[domain.Status]lipgloss.Style
	priority map[domain.Priority]lipgloss.Style

	App        lipgloss.Style
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	HeaderInfo lipgloss.Style

	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	TaskTitleDone      lipgloss.Style
	TaskDesc           lipgloss.Style
	TaskDue            lipgloss.Style
	TaskOverdue        lipgloss.Style
	SelectionIndicator lipgloss.Style

	Help      lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style

	InputPrompt  lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style
	ErrorMsg     lipgloss.Style

	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
}

// DefaultStyles returns the styles built from the default palette.
func DefaultStyles() Styles {
	return newStyles(defaultPalette)
}

func newStyles(p palette) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	boxed := func(border lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border)
	}
	const labelWidth = 12

	s := Styles{
		status:   make(map[domain.Status]lipgloss.Style, len(p.status)),
		priority: make(map[domain.Priority]lipgloss.Style, len(p.priority)),

		App:        lipgloss.NewStyle().Padding(1, 2),
		Header:     fg(p.accent).Bold(true).MarginBottom(1),
		HeaderText: lipgloss.NewStyle().Bold(true),
		HeaderInfo: fg(p.dim),

		TaskTitle:          fg(p.text),
		TaskTitleSelected:  fg(p.focus).Bold(true),
		TaskTitleDone:      fg(p.dim).Strikethrough(true),
		TaskDesc:           fg(p.dim),
		TaskDue:            fg(p.due),
		TaskOverdue:        fg(p.danger).Bold(true),
		SelectionIndicator: fg(p.focus),

		Help:      boxed(p.dim),
		HelpKey:   fg(p.accent).Bold(true),
		HelpDesc:  fg(p.dim),
		Footer:    fg(p.dim),
		FooterKey: fg(p.accent).Bold(true),

		Dialog:       boxed(p.danger),
		DialogTitle:  fg(p.danger).Bold(true),
		DialogPrompt: lipgloss.NewStyle(),

		InputPrompt:  fg(p.accent).Bold(true).Width(labelWidth),
		InputFocused: fg(p.focus).Bold(true).Width(labelWidth),
		FieldError:   fg(p.danger),
		ErrorMsg:     fg(p.danger).Bold(true),

		DetailTitle: fg(p.accent).Bold(true).MarginBottom(1),
		DetailLabel: fg(p.dim).Width(labelWidth),
		DetailValue: lipgloss.NewStyle(),
	}
	for status, c := range p.status {
		s.status[status] = fg(c)
	}
	for priority, c := range p.priority {
		st := fg(c)
		if priority == domain.PriorityHigh {
			st = st.Bold(true)
		}
		s.priority[priority] = st
	}
	return s
}

// StatusStyle returns the badge style for status. Unknown values render as todo.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	if st, ok := s.status[status]; ok {
		return st
	}
	return s.status[domain.StatusTodo]
}

// PriorityStyle returns the badge style for priority. Unknown values render as medium.
func (s Styles) PriorityStyle(priority domain.Priority) lipgloss.Style {
	if st, ok := s.priority[priority]; ok {
		return st
	}
	return s.priority[domain.PriorityMedium]
}

var statusIcons = map[domain.Status]string{
	domain.StatusTodo:       "○",
	domain.StatusInProgress: "●",
	domain.StatusDone:       "✓",
}

// StatusIcon returns the list icon for status.
func StatusIcon(status domain.Status) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return "?"
}

// PriorityMark returns a fixed-width marker for priority.
func PriorityMark(priority domain.Priority) string {
	switch priority {
	case domain.PriorityHigh:
		return "!!!"
	case domain.PriorityMedium:
		return "!! "
	case domain.PriorityLow:
		return "!  "
	}
	return "   "
}
