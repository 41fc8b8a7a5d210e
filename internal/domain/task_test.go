package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToggleCompletion(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusTodo, StatusDone},
		{StatusInProgress, StatusDone},
		{StatusDone, StatusTodo},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, ToggleCompletion(tt.from))
		})
	}
}

func TestToggleInProgress(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusTodo, StatusInProgress},
		{StatusInProgress, StatusTodo},
		{StatusDone, StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, ToggleInProgress(tt.from))
		})
	}
}

func TestIsBlankTitle(t *testing.T) {
	assert.True(t, IsBlankTitle(""))
	assert.True(t, IsBlankTitle("   "))
	assert.True(t, IsBlankTitle("\t\n"))
	assert.False(t, IsBlankTitle("x"))
	assert.False(t, IsBlankTitle("  Fix login bug "))
}

func TestTask_Apply(t *testing.T) {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "abc",
		Title:     "Old",
		Priority:  PriorityLow,
		Status:    StatusTodo,
		CreatedAt: created,
	}

	updated := task.Apply(TaskEdit{
		Title:       "New",
		Description: "body",
		Priority:    PriorityHigh,
		Status:      StatusInProgress,
		DueDate:     &due,
	})

	assert.Equal(t, "abc", updated.ID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "body", updated.Description)
	assert.Equal(t, PriorityHigh, updated.Priority)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.Equal(t, due, *updated.DueDate)

	// The original value is untouched
	assert.Equal(t, "Old", task.Title)
	assert.Nil(t, task.DueDate)

	// The due date is copied, not shared
	due = due.Add(time.Hour)
	assert.NotEqual(t, due, *updated.DueDate)
}

func TestTask_EditRoundTrip(t *testing.T) {
	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "abc",
		Title:       "Title",
		Description: "Desc",
		Priority:    PriorityMedium,
		Status:      StatusDone,
		DueDate:     &due,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, task, task.Apply(task.Edit()))
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{Status: StatusTodo, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusDone, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusTodo, DueDate: &future}.IsOverdue(now))
	assert.False(t, Task{Status: StatusTodo}.IsOverdue(now))
}

func TestEpochMillis(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	ms := EpochMillis(ts)
	assert.Equal(t, ts, FromEpochMillis(ms))
	assert.Equal(t, time.UTC, FromEpochMillis(0).Location())
}
