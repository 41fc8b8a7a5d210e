package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidSort      = errors.New("invalid sort mode")
	ErrNotInitialized   = errors.New("taskman not initialized (run 'taskman init' first)")
	ErrConfigExists     = errors.New("config file already exists")
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoTasksInFile    = errors.New("no tasks found in file")
	ErrUnknownStore     = errors.New("unknown store type")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrInvalidFormat    = errors.New("invalid export format")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrStoreNotEmpty    = errors.New("store already contains tasks")
	ErrAmbiguousID      = errors.New("task ID prefix matches more than one task")
	ErrStreamClosed     = errors.New("task stream closed")
)
