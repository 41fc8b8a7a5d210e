package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskman/internal/domain"
)

// formField identifies a field of the task form.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldStatus
	fieldCount
)

// taskForm edits the user-editable fields of a task.
// It backs both the create screen and the edit screen.
type taskForm struct {
	title    textinput.Model
	desc     textarea.Model
	due      textinput.Model
	dueErr   string
	priority domain.Priority
	status   domain.Status
	focus    formField
}

func newTaskForm() taskForm {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Description (optional, markdown)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD (blank = none)"
	di.CharLimit = 40

	f := taskForm{
		title:    ti,
		desc:     ta,
		due:      di,
		priority: domain.PriorityMedium,
		status:   domain.StatusTodo,
	}
	f.setFocus(fieldTitle)
	return f
}

// load fills the form from edit and focuses the title.
func (f *taskForm) load(edit domain.TaskEdit) {
	f.title.SetValue(edit.Title)
	f.desc.SetValue(edit.Description)
	f.due.SetValue("")
	if d := edit.DueDate; d != nil {
		if isMidnightUTC(*d) {
			f.due.SetValue(d.UTC().Format(time.DateOnly))
		} else {
			f.due.SetValue(d.UTC().Format(time.RFC3339))
		}
	}
	f.priority = edit.Priority
	f.status = edit.Status
	f.dueErr = ""
	f.setFocus(fieldTitle)
}

// edit returns the form contents. An unparsable due date is an error.
func (f *taskForm) edit() (domain.TaskEdit, error) {
	edit := domain.TaskEdit{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Priority:    f.priority,
		Status:      f.status,
	}
	if v := strings.TrimSpace(f.due.Value()); v != "" {
		due, err := domain.ParseDueDate(v)
		if err != nil {
			f.dueErr = "Use YYYY-MM-DD or an RFC 3339 timestamp"
			return edit, err
		}
		edit.DueDate = &due
	}
	f.dueErr = ""
	return edit, nil
}

func (f *taskForm) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDue:
		f.due.Focus()
	case fieldPriority, fieldStatus, fieldCount:
	}
}

func (f *taskForm) focusNext() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *taskForm) focusPrev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// update routes a key to the focused field.
func (f *taskForm) update(msg tea.KeyMsg, keys KeyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextField):
		f.focusNext()
		return nil
	case key.Matches(msg, keys.PrevField):
		f.focusPrev()
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		if msg.Type == tea.KeyEnter {
			f.focusNext()
			return nil
		}
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDue:
		if msg.Type == tea.KeyEnter {
			f.focusNext()
			return nil
		}
		f.due, cmd = f.due.Update(msg)
	case fieldPriority:
		if key.Matches(msg, keys.Cycle) {
			f.priority = cycle(domain.AllPriorities(), f.priority, msg.String() == "left")
		}
	case fieldStatus:
		if key.Matches(msg, keys.Cycle) {
			f.status = cycle(domain.AllStatuses(), f.status, msg.String() == "left")
		}
	case fieldCount:
	}
	return cmd
}

// cycle returns the value after (or before) cur in values, wrapping around.
func cycle[T comparable](values []T, cur T, backward bool) T {
	i := slices.Index(values, cur)
	if backward {
		return values[(i-1+len(values))%len(values)]
	}
	return values[(i+1)%len(values)]
}

// cycleFilter steps an optional filter through nil and every value.
func cycleFilter[T comparable](values []T, cur *T) *T {
	if cur == nil {
		v := values[0]
		return &v
	}
	i := slices.Index(values, *cur)
	if i < 0 || i == len(values)-1 {
		return nil
	}
	v := values[i+1]
	return &v
}

func (f *taskForm) setWidth(width int) {
	w := width - 20
	if w < 30 {
		w = 30
	}
	f.title.Width = w
	f.due.Width = w
	f.desc.SetWidth(w)
}

func (f *taskForm) view(styles Styles, heading string, titleError bool) string {
	label := func(field formField, text string) string {
		if f.focus == field {
			return styles.InputFocused.Render("> " + text)
		}
		return styles.InputPrompt.Render("  " + text)
	}
	option := func(field formField, value string, style lipgloss.Style) string {
		if f.focus == field {
			return styles.HelpDesc.Render("‹ ") + style.Render(value) + styles.HelpDesc.Render(" ›")
		}
		return "  " + style.Render(value)
	}

	rows := []string{
		styles.DialogTitle.Render(heading),
		"",
		label(fieldTitle, "Title") + f.title.View(),
	}
	if titleError {
		rows = append(rows, styles.FieldError.Render(strings.Repeat(" ", 12)+"Title is required"))
	}
	rows = append(rows,
		label(fieldDescription, "Description"),
		f.desc.View(),
		label(fieldDue, "Due")+f.due.View(),
	)
	if f.dueErr != "" {
		rows = append(rows, styles.FieldError.Render(strings.Repeat(" ", 12)+f.dueErr))
	}
	rows = append(rows,
		label(fieldPriority, "Priority")+option(fieldPriority, f.priority.Display(), styles.PriorityStyle(f.priority)),
		label(fieldStatus, "Status")+option(fieldStatus, f.status.Display(), styles.StatusStyle(f.status)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
