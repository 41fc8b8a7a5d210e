package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	list      *engine.ListEngine
	detail    *engine.DetailEngine
	create    *engine.CreateEngine
	listCh    <-chan engine.ListState
	cancel    context.CancelFunc
	err       error

	// Latest list engine state
	state engine.ListState

	// Components
	keys        KeyMap
	styles      Styles
	help        help.Model
	taskList    list.Model
	detailView  viewport.Model
	searchInput textinput.Model
	form        taskForm

	// Numeric state (smaller types last)
	mode          Mode
	returnMode    Mode // Mode restored when confirm or help closes
	confirmTaskID string
	sortCursor    int
	width         int
	height        int
	plainMarkdown bool // Render descriptions without colors
}

// New creates a new TUI Model with the given container.
// The list engine stream is opened immediately and released on quit.
func New(c *app.Container) *Model {
	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.CharLimit = 100

	styles := DefaultStyles()
	delegate := newTaskDelegate(styles, c.Clock)
	taskList := list.New([]list.Item{}, delegate, 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	listEngine := c.ListEngine()
	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		container:   c,
		list:        listEngine,
		detail:      c.DetailEngine(),
		create:      c.CreateEngine(),
		listCh:      listEngine.ObserveTasks(ctx),
		cancel:      cancel,
		state:       listEngine.State(),
		mode:        ModeList,
		keys:        DefaultKeyMap(),
		styles:      styles,
		help:        help.New(),
		taskList:    taskList,
		searchInput: si,
		form:        newTaskForm(),
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.waitForListState()
}

// Close releases the list engine stream.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// waitForListState returns a command that delivers the next list state.
func (m *Model) waitForListState() tea.Cmd {
	ch := m.listCh
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return MsgListClosed{}
		}
		return MsgListState{State: st}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.taskList.SelectedItem() == nil {
		return nil
	}
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		task := ti.task
		return &task
	}
	return nil
}

// updateTaskList replaces the list items and keeps the selected task selected.
func (m *Model) updateTaskList() {
	var selectedID string
	if task := m.SelectedTask(); task != nil {
		selectedID = task.ID
	}

	items := make([]list.Item, 0, len(m.state.Filtered))
	for _, task := range m.state.Filtered {
		items = append(items, taskItem{task: task})
	}
	m.taskList.SetItems(items)

	if selectedID == "" {
		return
	}
	idx := slices.IndexFunc(m.state.Filtered, func(t domain.Task) bool { return t.ID == selectedID })
	if idx >= 0 {
		m.taskList.Select(idx)
	}
}

// findTask returns the task with id from the full collection.
func (m *Model) findTask(id string) (domain.Task, bool) {
	idx := slices.IndexFunc(m.state.Tasks, func(t domain.Task) bool { return t.ID == id })
	if idx < 0 {
		return domain.Task{}, false
	}
	return m.state.Tasks[idx], true
}

// updateLayoutSizes recomputes component sizes after a resize.
func (m *Model) updateLayoutSizes() {
	listHeight := m.height - 10
	if listHeight < 3 {
		listHeight = 3
	}
	m.taskList.SetSize(m.width-4, listHeight)
	m.form.setWidth(m.width)
	m.searchInput.Width = m.width - 16
	m.initDetailViewport()
}

func (m *Model) initDetailViewport() {
	width := m.width - 8
	height := m.height - 8
	if width < 40 {
		width = 40
	}
	if height < 5 {
		height = 5
	}
	m.detailView = viewport.New(width, height)
	m.detailView.SetContent(m.detailContent(width))
}
