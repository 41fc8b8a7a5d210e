package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/taskman/internal/domain"
)

// DetailPhase is the lifecycle phase of the detail engine.
type DetailPhase int

const (
	PhaseLoading  DetailPhase = iota // Fetching the task
	PhaseLoaded                      // Task available for viewing or editing
	PhaseNotFound                    // No task with the requested ID
	PhaseDeleted                     // Task was deleted from this screen
	PhaseError                       // Store read failed; Load may be retried
)

// String returns the phase name.
func (p DetailPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseNotFound:
		return "not_found"
	case PhaseDeleted:
		return "deleted"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// DetailState is a snapshot of the detail engine.
// Fields are ordered to minimize memory padding.
type DetailState struct {
	Err        error            // Last store failure
	Task       *domain.Task     // Loaded task (nil unless loaded or deleted)
	Draft      *domain.TaskEdit // Pending edit while editing
	ID         string           // Requested task ID
	Phase      DetailPhase
	Editing    bool // Loaded in edit mode
	TitleError bool // Last update was rejected for a blank title
}

// DetailEngine drives the single-task screen:
// Loading -> Loaded (viewing <-> editing) | NotFound | Error, Loaded -> Deleted.
type DetailEngine struct {
	store  domain.TaskStore
	logger domain.Logger
	state  DetailState
	mu     sync.Mutex
}

// NewDetailEngine creates a DetailEngine. store may be nil, in which case
// every load ends in PhaseNotFound.
func NewDetailEngine(store domain.TaskStore, logger domain.Logger) *DetailEngine {
	return &DetailEngine{
		store:  store,
		logger: logger,
	}
}

// State returns the current detail state.
func (e *DetailEngine) State() DetailState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Load fetches the task with the given ID.
// A missing task ends in PhaseNotFound without an error; a store failure
// returns the error and leaves the engine in PhaseError with Err set.
func (e *DetailEngine) Load(ctx context.Context, id string) error {
	e.mu.Lock()
	e.state = DetailState{ID: id, Phase: PhaseLoading}
	e.mu.Unlock()

	if e.store == nil {
		e.setPhase(PhaseNotFound, nil)
		return nil
	}

	task, err := e.store.Get(ctx, id)
	if err != nil {
		err = fmt.Errorf("get task: %w", err)
		if e.logger != nil {
			e.logger.Error(id, "detail", err.Error())
		}
		e.mu.Lock()
		e.state.Phase = PhaseError
		e.state.Err = err
		e.mu.Unlock()
		return err
	}

	if task == nil {
		e.setPhase(PhaseNotFound, nil)
		return nil
	}
	e.setPhase(PhaseLoaded, task)
	return nil
}

func (e *DetailEngine) setPhase(phase DetailPhase, task *domain.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Phase = phase
	e.state.Task = task
}

// ToggleEditMode switches between viewing and editing.
// It does nothing unless a task is loaded.
func (e *DetailEngine) ToggleEditMode() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseLoaded {
		return
	}
	e.state.Editing = !e.state.Editing
	e.state.TitleError = false
	e.state.Err = nil
	if e.state.Editing {
		draft := e.state.Task.Edit()
		e.state.Draft = &draft
	} else {
		e.state.Draft = nil
	}
}

// Update replaces the editable fields of the loaded task and persists it.
// A blank title is rejected with domain.ErrEmptyTitle and TitleError set.
// On a store failure the engine stays in edit mode and keeps the edit.
func (e *DetailEngine) Update(ctx context.Context, edit domain.TaskEdit) error {
	e.mu.Lock()
	if e.state.Phase != PhaseLoaded || e.state.Task == nil {
		e.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	if domain.IsBlankTitle(edit.Title) {
		e.state.TitleError = true
		e.state.Draft = &edit
		e.mu.Unlock()
		return domain.ErrEmptyTitle
	}
	updated := e.state.Task.Apply(edit)
	e.mu.Unlock()

	if err := e.store.Update(ctx, updated); err != nil {
		err = fmt.Errorf("update task: %w", err)
		if e.logger != nil {
			e.logger.Error(updated.ID, "detail", err.Error())
		}
		e.mu.Lock()
		e.state.Editing = true
		e.state.Draft = &edit
		e.state.Err = err
		e.mu.Unlock()
		return err
	}

	if e.logger != nil {
		e.logger.Info(updated.ID, "task", fmt.Sprintf("updated: %q", updated.Title))
	}

	e.mu.Lock()
	e.state.Task = &updated
	e.state.Editing = false
	e.state.Draft = nil
	e.state.TitleError = false
	e.state.Err = nil
	e.mu.Unlock()
	return nil
}

// Delete removes the loaded task.
func (e *DetailEngine) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.state.Phase != PhaseLoaded || e.state.Task == nil {
		e.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	id := e.state.Task.ID
	e.mu.Unlock()

	if err := e.store.Delete(ctx, id); err != nil {
		err = fmt.Errorf("delete task: %w", err)
		if e.logger != nil {
			e.logger.Error(id, "detail", err.Error())
		}
		e.mu.Lock()
		e.state.Err = err
		e.mu.Unlock()
		return err
	}

	if e.logger != nil {
		e.logger.Info(id, "task", "deleted")
	}

	e.mu.Lock()
	e.state.Phase = PhaseDeleted
	e.state.Editing = false
	e.state.Draft = nil
	e.state.Err = nil
	e.mu.Unlock()
	return nil
}
