// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a single to-do item.
// Task is a value: mutations produce a modified copy.
// Fields are ordered to minimize memory padding.
type Task struct {
	// CreatedAt is fixed at creation.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	// DueDate is nil when the task has no due date.
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Status      Status     `json:"status" yaml:"status"`
}

// HasDueDate returns true if the task has a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// IsDone returns true if the task is completed.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue returns true if the task has a due date before now and is not done.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && !t.IsDone() && t.DueDate.Before(now)
}

// WithStatus returns a copy of the task with the given status.
func (t Task) WithStatus(status Status) Task {
	t.Status = status
	return t
}

// Apply returns a copy of the task with the editable fields replaced by edit.
// ID and CreatedAt are never changed.
func (t Task) Apply(edit TaskEdit) Task {
	t.Title = edit.Title
	t.Description = edit.Description
	t.Priority = edit.Priority
	t.Status = edit.Status
	t.DueDate = copyTime(edit.DueDate)
	return t
}

// Edit returns the editable fields of the task.
func (t Task) Edit() TaskEdit {
	return TaskEdit{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     copyTime(t.DueDate),
	}
}

// TaskEdit holds the user-editable fields of a task.
// Fields are ordered to minimize memory padding.
type TaskEdit struct {
	DueDate     *time.Time
	Title       string
	Description string
	Priority    Priority
	Status      Status
}

// IsBlankTitle reports whether title is empty or whitespace only.
func IsBlankTitle(title string) bool {
	return strings.TrimSpace(title) == ""
}

// ToggleCompletion returns the status after toggling completion.
// done becomes todo; every other status becomes done.
func ToggleCompletion(s Status) Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// ToggleInProgress returns the status after toggling in-progress.
// in_progress becomes todo; every other status, done included, becomes in_progress.
func ToggleInProgress(s Status) Status {
	if s == StatusInProgress {
		return StatusTodo
	}
	return StatusInProgress
}

// EpochMillis converts t to milliseconds since the Unix epoch.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis converts milliseconds since the Unix epoch to a UTC time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
