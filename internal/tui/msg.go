package tui

import (
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgListState carries a new state from the list engine.
type MsgListState struct {
	State engine.ListState
}

func (MsgListState) sealed() {}

// MsgListClosed is sent when the list stream ends.
type MsgListClosed struct{}

func (MsgListClosed) sealed() {}

// MsgDetailLoaded is sent when the detail engine finished loading a task.
type MsgDetailLoaded struct {
	State engine.DetailState
}

func (MsgDetailLoaded) sealed() {}

// MsgTaskSaved is sent when an edit was persisted.
type MsgTaskSaved struct {
	Task domain.Task
}

func (MsgTaskSaved) sealed() {}

// MsgTaskCreated is sent when a new task is created.
type MsgTaskCreated struct {
	Task domain.Task
}

func (MsgTaskCreated) sealed() {}

// MsgTaskDeleted is sent when a task is deleted.
type MsgTaskDeleted struct {
	TaskID string
}

func (MsgTaskDeleted) sealed() {}

// MsgTaskToggled is sent when a task status was toggled from the list.
type MsgTaskToggled struct {
	Task domain.Task
}

func (MsgTaskToggled) sealed() {}

// MsgFormRejected is sent when a form submit failed. The engine state
// says whether the title was blank or the store failed.
type MsgFormRejected struct {
	Err error
}

func (MsgFormRejected) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
