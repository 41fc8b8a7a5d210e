package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/taskman/internal/domain"
)

type taskItem struct {
	task domain.Task
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// dueText formats a due date for the list and detail views.
func dueText(due *time.Time) string {
	if due == nil {
		return ""
	}
	d := due.UTC()
	if isMidnightUTC(d) {
		return d.Format("Jan 2, 2006")
	}
	return d.Format("Jan 2, 2006 15:04Z")
}

func isMidnightUTC(t time.Time) bool {
	u := t.UTC()
	return u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0
}

type taskDelegate struct {
	styles Styles
	clock  domain.Clock
}

func newTaskDelegate(styles Styles, clock domain.Clock) taskDelegate {
	return taskDelegate{styles: styles, clock: clock}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 1
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// prefixWidth is the width of "  > ● ● !!! " before the title.
const prefixWidth = 12

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicatorChar := " "
	if selected {
		indicatorChar = ">"
	}

	var due string
	overdue := task.IsOverdue(d.clock.Now())
	if task.DueDate != nil {
		due = "due " + dueText(task.DueDate)
		if overdue {
			due = "overdue " + dueText(task.DueDate)
		}
	}

	listWidth := m.Width()
	maxTitleLen := listWidth - prefixWidth - runewidth.StringWidth(due) - 4
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := escapeNewlines(task.Title)
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen-3, "...")
	}
	titleWidth := runewidth.StringWidth(title)

	titleStyle := d.styles.TaskTitle
	switch {
	case selected:
		titleStyle = d.styles.TaskTitleSelected
	case task.IsDone():
		titleStyle = d.styles.TaskTitleDone
	}

	line := "  " + d.styles.SelectionIndicator.Bold(selected).Render(indicatorChar) + " " +
		d.styles.StatusStyle(task.Status).Bold(selected).Render(StatusIcon(task.Status)) + " " +
		d.styles.PriorityStyle(task.Priority).Render(PriorityMark(task.Priority)) + " " +
		titleStyle.Render(title)

	if due != "" {
		gap := listWidth - prefixWidth - titleWidth - runewidth.StringWidth(due) - 2
		if gap < 2 {
			gap = 2
		}
		dueStyle := d.styles.TaskDue
		if overdue {
			dueStyle = d.styles.TaskOverdue
		}
		line += strings.Repeat(" ", gap) + dueStyle.Render(due)
	}
	_, _ = fmt.Fprintln(w, line)

	descLine := strings.Repeat(" ", prefixWidth)
	if task.Description != "" {
		desc := escapeNewlines(task.Description)
		maxDescLen := listWidth - prefixWidth - 2
		if maxDescLen < 10 {
			maxDescLen = 10
		}
		if runewidth.StringWidth(desc) > maxDescLen {
			desc = runewidth.Truncate(desc, maxDescLen-3, "...")
		}
		descLine += desc
	}
	_, _ = fmt.Fprint(w, d.styles.TaskDesc.Render(descLine))
}
