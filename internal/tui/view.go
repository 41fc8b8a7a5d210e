package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail, ModeEdit:
		content = m.viewDetail()
	case ModeCreate:
		content = m.viewCreate()
	case ModeList, ModeSearch, ModeSort, ModeConfirm:
		if m.mode == ModeConfirm && m.returnMode == ModeDetail {
			content = m.viewDetail()
		} else {
			content = m.viewMain()
		}
	}

	return m.styles.App.Render(content)
}

// viewMain renders the task list screen.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.state.Err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.state.Err.Error()) + "  " +
			m.styles.FooterKey.Render("r") + m.styles.Footer.Render(" retry") + "\n\n")
	}

	if m.mode == ModeSearch {
		b.WriteString(m.styles.InputPrompt.Render("Search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.state.Loading:
		b.WriteString("\n" + m.styles.Footer.Render("  Loading tasks...") + "\n")
	case len(m.state.Filtered) == 0:
		b.WriteString(m.viewEmptyState())
	default:
		b.WriteString(m.taskList.View())
		if m.taskList.Paginator.TotalPages > 1 {
			b.WriteString("\n" + m.styles.Footer.Render(fmt.Sprintf("  page %d/%d",
				m.taskList.Paginator.Page+1, m.taskList.Paginator.TotalPages)))
		}
	}

	switch m.mode {
	case ModeConfirm:
		b.WriteString("\n\n" + m.viewConfirm())
	case ModeSort:
		b.WriteString("\n\n" + m.viewSortPicker())
	case ModeList, ModeSearch, ModeDetail, ModeEdit, ModeCreate, ModeHelp:
	}

	b.WriteString("\n\n" + m.help.View(m.keys))
	return b.String()
}

// viewHeader renders "Tasks" with the visible count and active filters.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("Tasks")

	info := fmt.Sprintf("showing %d of %d tasks", len(m.state.Filtered), len(m.state.Tasks))
	if summary := filterSummary(m.state.Query); summary != "" {
		info += " · " + summary
	}
	rightText := m.styles.HeaderInfo.Render(info)

	headerWidth := m.width - 6
	if headerWidth < 40 {
		headerWidth = 40
	}
	spacing := headerWidth - lipgloss.Width(title) - lipgloss.Width(rightText)
	if spacing < 1 {
		spacing = 1
	}

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + rightText)
}

// filterSummary describes the active query in a few words.
func filterSummary(q domain.Query) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", q.Search))
	}
	if q.Status != nil {
		parts = append(parts, q.Status.Display())
	}
	if q.Priority != nil {
		parts = append(parts, q.Priority.Display()+" priority")
	}
	if q.SortBy != "" && q.SortBy != domain.DefaultSortBy {
		parts = append(parts, "sorted "+q.SortBy.Display())
	}
	return strings.Join(parts, ", ")
}

func (m *Model) viewEmptyState() string {
	var b strings.Builder
	b.WriteString("\n")
	if len(m.state.Tasks) > 0 && m.state.Query.IsFiltered() {
		b.WriteString(m.styles.Footer.Render("  No tasks match the current filters\n\n"))
		b.WriteString(m.styles.Footer.Render("  Press "))
		b.WriteString(m.styles.FooterKey.Render("c"))
		b.WriteString(m.styles.Footer.Render(" to clear them"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.styles.Footer.Render("  No tasks yet\n\n"))
	b.WriteString(m.styles.Footer.Render("  Press "))
	b.WriteString(m.styles.FooterKey.Render("n"))
	b.WriteString(m.styles.Footer.Render(" to create your first task"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewConfirm() string {
	title := "this task"
	if task, ok := m.findTask(m.confirmTaskID); ok {
		title = fmt.Sprintf("%q", task.Title)
	}
	content := m.styles.DialogTitle.Render("Delete task") + "\n\n" +
		m.styles.DialogPrompt.Render("Delete "+title+"?") + "\n\n" +
		m.styles.FooterKey.Render("y") + m.styles.Footer.Render(" delete  ") +
		m.styles.FooterKey.Render("n") + m.styles.Footer.Render(" cancel")
	return m.styles.Dialog.Render(content)
}

func (m *Model) viewSortPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Sort by") + "\n\n")
	current := m.currentSort()
	for i, mode := range domain.AllSortModes() {
		cursor := "  "
		if i == m.sortCursor {
			cursor = m.styles.SelectionIndicator.Render("> ")
		}
		label := mode.Display()
		if mode == current {
			label += " ✓"
		}
		b.WriteString(cursor + label + "\n")
	}
	return m.styles.Dialog.Render(strings.TrimRight(b.String(), "\n"))
}

// viewDetail renders the single-task screen and the edit form.
func (m *Model) viewDetail() string {
	st := m.detail.State()

	if m.mode == ModeEdit {
		var b strings.Builder
		b.WriteString(m.form.view(m.styles, "Edit task", st.TitleError))
		if st.Err != nil {
			b.WriteString("\n\n" + m.styles.ErrorMsg.Render("Error: "+st.Err.Error()))
		}
		b.WriteString("\n\n" + m.help.View(formKeyMap{keys: m.keys}))
		return b.String()
	}

	var b strings.Builder
	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}
	b.WriteString(m.detailView.View())
	if m.mode == ModeConfirm {
		b.WriteString("\n\n" + m.viewConfirm())
	}
	b.WriteString("\n\n" + m.styles.Footer.Render("e edit · d delete · esc back"))
	return b.String()
}

// detailContent renders the loaded task for the detail viewport.
func (m *Model) detailContent(width int) string {
	st := m.detail.State()
	switch st.Phase {
	case engine.PhaseLoading:
		return m.styles.Footer.Render("Loading task...")
	case engine.PhaseNotFound:
		return m.styles.Footer.Render("Task not found")
	case engine.PhaseError:
		return m.styles.ErrorMsg.Render("Could not load task: " + st.Err.Error())
	case engine.PhaseDeleted:
		return m.styles.Footer.Render("Task deleted")
	case engine.PhaseLoaded:
	}
	if st.Task == nil {
		return ""
	}
	task := *st.Task

	row := func(label, value string) string {
		return m.styles.DetailLabel.Render(label) + m.styles.DetailValue.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.DetailTitle.Render(escapeNewlines(task.Title)) + "\n")
	b.WriteString(row("ID", task.ID))
	b.WriteString(row("Status", m.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status)+" "+task.Status.Display())))
	b.WriteString(row("Priority", m.styles.PriorityStyle(task.Priority).Render(task.Priority.Display())))
	if task.DueDate != nil {
		due := dueText(task.DueDate)
		if task.IsOverdue(m.container.Clock.Now()) {
			due = m.styles.TaskOverdue.Render(due + " (overdue)")
		}
		b.WriteString(row("Due", due))
	}
	b.WriteString(row("Created", task.CreatedAt.Local().Format(time.DateTime)))

	if desc := renderMarkdown(task.Description, width, m.plainMarkdown); desc != "" {
		b.WriteString("\n" + desc + "\n")
	} else {
		b.WriteString("\n" + m.styles.Footer.Render("No description") + "\n")
	}
	return b.String()
}

func (m *Model) viewCreate() string {
	st := m.create.State()
	var b strings.Builder
	heading := "New task"
	if st.Saving {
		heading += " (saving...)"
	}
	b.WriteString(m.form.view(m.styles, heading, st.TitleError))
	if st.Err != nil {
		b.WriteString("\n\n" + m.styles.ErrorMsg.Render("Error: "+st.Err.Error()))
	}
	b.WriteString("\n\n" + m.help.View(formKeyMap{keys: m.keys}))
	return b.String()
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Keybindings") + "\n\n")
	groups := []string{"Navigation", "Tasks", "View", "Forms", "General"}
	for i, bindings := range m.keys.FullHelp() {
		b.WriteString(m.styles.HeaderText.Render(groups[i]) + "\n")
		for _, binding := range bindings {
			h := binding.Help()
			b.WriteString("  " + m.styles.HelpKey.Width(12).Render(h.Key) + m.styles.HelpDesc.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render("Press any key to close"))
	return m.styles.Help.Render(b.String())
}
