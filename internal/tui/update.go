package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgListState:
		m.state = msg.State
		m.updateTaskList()
		cmds := []tea.Cmd{m.waitForListState()}
		// Keep an open detail screen in sync with changes from other clients
		if m.mode == ModeDetail {
			if cmd := m.refreshDetail(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case MsgListClosed:
		return m, nil

	case MsgDetailLoaded:
		m.err = msg.State.Err
		m.initDetailViewport()
		return m, nil

	case MsgTaskSaved:
		m.mode = ModeDetail
		m.initDetailViewport()
		return m, nil

	case MsgTaskCreated:
		m.mode = ModeList
		m.create.Reset()
		return m, nil

	case MsgTaskDeleted:
		m.mode = ModeList
		m.confirmTaskID = ""
		return m, nil

	case MsgTaskToggled:
		return m, nil

	case MsgFormRejected:
		// Title and store errors are read from the engine state by the view
		return m, nil

	case MsgError:
		m.err = msg.Err
		if m.mode == ModeConfirm {
			m.mode = m.returnMode
		}
		m.confirmTaskID = ""
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear error on any key press
	if m.err != nil && !m.mode.IsInputMode() {
		m.err = nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeSort:
		return m.handleSortMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeEdit:
		return m.handleEditMode(msg)
	case ModeCreate:
		return m.handleCreateMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

// handleListMode handles keys on the task list.
func (m *Model) handleListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.PrevPage):
		m.taskList.Paginator.PrevPage()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.list.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.taskList.Paginator.NextPage()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		return m, m.openDetail(task.ID)

	case key.Matches(msg, m.keys.New):
		m.openCreate()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDone):
		if task := m.SelectedTask(); task != nil {
			return m, m.toggleTask(task.ID, (*engine.ListEngine).ToggleCompletion)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleProgress):
		if task := m.SelectedTask(); task != nil {
			return m, m.toggleTask(task.ID, (*engine.ListEngine).ToggleInProgress)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if task := m.SelectedTask(); task != nil {
			m.confirmTaskID = task.ID
			m.returnMode = ModeList
			m.mode = ModeConfirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.SetValue(m.state.Query.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterStatus):
		m.list.SetStatusFilter(cycleFilter(domain.AllStatuses(), m.state.Query.Status))
		return m, nil

	case key.Matches(msg, m.keys.FilterPriority):
		m.list.SetPriorityFilter(cycleFilter(domain.AllPriorities(), m.state.Query.Priority))
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortCursor = max(0, slices.Index(domain.AllSortModes(), m.currentSort()))
		m.mode = ModeSort
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.list.ClearFilters()
		m.searchInput.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.returnMode = ModeList
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

// currentSort returns the sort mode in effect.
func (m *Model) currentSort() domain.SortBy {
	if m.state.Query.SortBy == "" {
		return domain.DefaultSortBy
	}
	return m.state.Query.SortBy
}

// handleSearchMode feeds the search input to the list engine as the user types.
func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeList
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.list.SetSearchQuery("")
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = ModeList
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.state.Query.Search {
		m.list.SetSearchQuery(m.searchInput.Value())
	}
	return m, cmd
}

// handleSortMode handles keys in the sort picker.
func (m *Model) handleSortMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modes := domain.AllSortModes()
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.mode = ModeList
	case key.Matches(msg, m.keys.Up):
		if m.sortCursor > 0 {
			m.sortCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sortCursor < len(modes)-1 {
			m.sortCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.list.SetSortBy(modes[m.sortCursor])
		m.mode = ModeList
	}
	return m, nil
}

// handleConfirmMode handles keys in the delete confirmation.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = m.returnMode
		m.confirmTaskID = ""
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.returnMode == ModeDetail {
			return m, m.deleteFromDetail()
		}
		return m, m.deleteFromList(m.confirmTaskID)
	}

	return m, nil
}

// handleDetailMode handles keys on the task detail screen.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.detail.State()
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "q":
		m.mode = ModeList
		return m, nil

	case msg.String() == "ctrl+c":
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		if st.Phase != engine.PhaseLoaded {
			return m, nil
		}
		m.detail.ToggleEditMode()
		m.form = newTaskForm()
		m.form.setWidth(m.width)
		if draft := m.detail.State().Draft; draft != nil {
			m.form.load(*draft)
		}
		m.mode = ModeEdit
		return m, m.form.title.Focus()

	case key.Matches(msg, m.keys.Delete):
		if st.Phase != engine.PhaseLoaded {
			return m, nil
		}
		m.confirmTaskID = st.Task.ID
		m.returnMode = ModeDetail
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.returnMode = ModeDetail
		m.mode = ModeHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

// handleEditMode handles keys in the edit form.
func (m *Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.detail.ToggleEditMode()
		m.mode = ModeDetail
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Save):
		edit, err := m.form.edit()
		if err != nil {
			return m, nil
		}
		return m, m.saveEdit(edit)
	}

	return m, m.form.update(msg, m.keys)
}

// handleCreateMode handles keys in the create form.
func (m *Model) handleCreateMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.create.Reset()
		m.mode = ModeList
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Save):
		edit, err := m.form.edit()
		if err != nil {
			return m, nil
		}
		m.create.SetDraft(edit)
		return m, m.submitCreate()
	}

	cmd := m.form.update(msg, m.keys)
	// Typing a title clears the engine's title error
	if m.form.focus == fieldTitle && m.form.title.Value() != m.create.State().Draft.Title {
		m.create.SetTitle(m.form.title.Value())
	}
	return m, cmd
}

// handleHelpMode closes the help overlay on any key.
func (m *Model) handleHelpMode(_ tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = m.returnMode
	return m, nil
}

// openCreate resets the create engine and shows the form.
func (m *Model) openCreate() {
	m.create.Reset()
	m.form = newTaskForm()
	m.form.setWidth(m.width)
	m.form.load(m.create.State().Draft)
	m.err = nil
	m.mode = ModeCreate
}

// openDetail switches to the detail screen and loads id.
func (m *Model) openDetail(id string) tea.Cmd {
	m.mode = ModeDetail
	m.err = nil
	detail := m.detail
	return func() tea.Msg {
		_ = detail.Load(context.Background(), id)
		return MsgDetailLoaded{State: detail.State()}
	}
}

// refreshDetail reloads the detail screen when the shown task changed in the
// store, or retries a load that failed.
func (m *Model) refreshDetail() tea.Cmd {
	st := m.detail.State()
	if st.Phase == engine.PhaseError {
		return m.openDetail(st.ID)
	}
	if st.Phase != engine.PhaseLoaded || st.Task == nil {
		return nil
	}
	current, ok := m.findTask(st.Task.ID)
	if ok && taskEqual(current, *st.Task) {
		return nil
	}
	return m.openDetail(st.Task.ID)
}

func taskEqual(a, b domain.Task) bool {
	if a.Title != b.Title || a.Description != b.Description || a.Priority != b.Priority || a.Status != b.Status {
		return false
	}
	if (a.DueDate == nil) != (b.DueDate == nil) {
		return false
	}
	return a.DueDate == nil || a.DueDate.Equal(*b.DueDate)
}

type toggleFunc func(*engine.ListEngine, context.Context, string) (*domain.Task, error)

func (m *Model) toggleTask(id string, toggle toggleFunc) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		task, err := toggle(list, context.Background(), id)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskToggled{Task: *task}
	}
}

func (m *Model) deleteFromList(id string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		if err := list.DeleteTask(context.Background(), id); err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskDeleted{TaskID: id}
	}
}

func (m *Model) deleteFromDetail() tea.Cmd {
	detail := m.detail
	id := m.confirmTaskID
	return func() tea.Msg {
		if err := detail.Delete(context.Background()); err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskDeleted{TaskID: id}
	}
}

func (m *Model) saveEdit(edit domain.TaskEdit) tea.Cmd {
	detail := m.detail
	return func() tea.Msg {
		if err := detail.Update(context.Background(), edit); err != nil {
			return MsgFormRejected{Err: err}
		}
		return MsgTaskSaved{Task: *detail.State().Task}
	}
}

func (m *Model) submitCreate() tea.Cmd {
	create := m.create
	return func() tea.Msg {
		task, err := create.Submit(context.Background())
		if err != nil {
			return MsgFormRejected{Err: err}
		}
		if task == nil {
			// A submit is already in flight
			return nil
		}
		return MsgTaskCreated{Task: *task}
	}
}
