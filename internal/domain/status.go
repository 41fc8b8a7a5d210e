package domain

import "fmt"

// Status represents the progress state of a task.
type Status string

const (
	StatusTodo       Status = "todo"        // Not started
	StatusInProgress Status = "in_progress" // Being worked on
	StatusDone       Status = "done"        // Completed
)

// AllStatuses returns all valid status values in rank order.
func AllStatuses() []Status {
	return []Status{
		StatusTodo,
		StatusInProgress,
		StatusDone,
	}
}

// Rank returns the sort rank of the status (todo=0, in_progress=1, done=2).
// Unknown values rank after all known ones.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusInProgress:
		return 1
	case StatusDone:
		return 2
	default:
		return 3
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus parses a status name. Both "in_progress" and "in-progress" are accepted.
func ParseStatus(v string) (Status, error) {
	if v == "in-progress" {
		return StatusInProgress, nil
	}
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}
