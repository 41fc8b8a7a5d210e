package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskman/internal/domain"
)

// CreateState is a snapshot of the creation form.
// Fields are ordered to minimize memory padding.
type CreateState struct {
	Err        error           // Last store failure
	Draft      domain.TaskEdit // Form fields
	TitleError bool            // Last submit was rejected for a blank title
	Saving     bool            // A submit is in flight
}

// CreateEngine holds the draft of a new task and submits it to the store.
type CreateEngine struct {
	store  domain.TaskStore
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
	state  CreateState
	mu     sync.Mutex
}

// NewCreateEngine creates a CreateEngine with a default draft.
// store may be nil, in which case Submit builds the task without persisting it.
func NewCreateEngine(store domain.TaskStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *CreateEngine {
	return &CreateEngine{
		store:  store,
		ids:    ids,
		clock:  clock,
		logger: logger,
		state:  CreateState{Draft: defaultDraft()},
	}
}

func defaultDraft() domain.TaskEdit {
	return domain.TaskEdit{
		Priority: domain.PriorityMedium,
		Status:   domain.StatusTodo,
	}
}

// State returns the current form state.
func (e *CreateEngine) State() CreateState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetTitle sets the title and clears the title error.
func (e *CreateEngine) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Draft.Title = title
	e.state.TitleError = false
}

// SetDescription sets the description.
func (e *CreateEngine) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Draft.Description = description
}

// SetPriority sets the priority.
func (e *CreateEngine) SetPriority(priority domain.Priority) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Draft.Priority = priority
}

// SetStatus sets the status.
func (e *CreateEngine) SetStatus(status domain.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Draft.Status = status
}

// SetDueDate sets the due date. nil removes it.
func (e *CreateEngine) SetDueDate(due *time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if due == nil {
		e.state.Draft.DueDate = nil
		return
	}
	d := *due
	e.state.Draft.DueDate = &d
}

// SetDraft replaces every form field at once.
func (e *CreateEngine) SetDraft(edit domain.TaskEdit) {
	e.SetTitle(edit.Title)
	e.SetDescription(edit.Description)
	e.SetPriority(edit.Priority)
	e.SetStatus(edit.Status)
	e.SetDueDate(edit.DueDate)
}

// Reset restores the default draft.
func (e *CreateEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = CreateState{Draft: defaultDraft()}
}

// Submit validates the draft and inserts a new task.
// A blank title sets TitleError and returns domain.ErrEmptyTitle without
// writing. While a submit is in flight further calls return (nil, nil).
// On success the created task is returned and the draft is reset; on a store
// failure the draft is kept and Err is set.
func (e *CreateEngine) Submit(ctx context.Context) (*domain.Task, error) {
	e.mu.Lock()
	if e.state.Saving {
		e.mu.Unlock()
		return nil, nil
	}
	if domain.IsBlankTitle(e.state.Draft.Title) {
		e.state.TitleError = true
		e.mu.Unlock()
		return nil, domain.ErrEmptyTitle
	}
	e.state.Saving = true
	e.state.Err = nil
	task := domain.Task{
		ID:        e.ids.NewID(),
		CreatedAt: e.clock.Now().Truncate(time.Millisecond),
	}.Apply(e.state.Draft)
	e.mu.Unlock()

	var err error
	if e.store != nil {
		err = e.store.Insert(ctx, task)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Saving = false
	if err != nil {
		e.state.Err = fmt.Errorf("insert task: %w", err)
		if e.logger != nil {
			e.logger.Error(task.ID, "create", e.state.Err.Error())
		}
		return nil, e.state.Err
	}

	if e.logger != nil && e.store != nil {
		e.logger.Info(task.ID, "task", fmt.Sprintf("created: %q", task.Title))
	}
	e.state = CreateState{Draft: defaultDraft()}
	return &task, nil
}
