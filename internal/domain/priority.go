package domain

import "fmt"

// Priority represents the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns all valid priorities in rank order.
func AllPriorities() []Priority {
	return []Priority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
	}
}

// Rank returns the sort rank of the priority (low=0, medium=1, high=2).
// Unknown values rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return -1
	}
}

// Display returns a human-readable representation of the priority.
func (p Priority) Display() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority parses a priority name.
func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	return p, nil
}
