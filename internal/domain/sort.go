package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortBy selects the single key the task list is ordered by.
type SortBy string

const (
	SortCreatedAsc        SortBy = "created_asc"
	SortCreatedDesc       SortBy = "created_desc"
	SortDueAsc            SortBy = "due_asc"
	SortDueDesc           SortBy = "due_desc"
	SortPriorityHighToLow SortBy = "priority_desc"
	SortPriorityLowToHigh SortBy = "priority_asc"
	SortStatus            SortBy = "status"
	SortTitleAsc          SortBy = "title_asc"
	SortTitleDesc         SortBy = "title_desc"
)

// DefaultSortBy is the ordering used when none is selected: newest first.
const DefaultSortBy = SortCreatedDesc

// AllSortModes returns every sort mode in menu order.
func AllSortModes() []SortBy {
	return []SortBy{
		SortCreatedAsc,
		SortCreatedDesc,
		SortDueAsc,
		SortDueDesc,
		SortPriorityHighToLow,
		SortPriorityLowToHigh,
		SortStatus,
		SortTitleAsc,
		SortTitleDesc,
	}
}

// Display returns a human-readable label for the sort mode.
func (s SortBy) Display() string {
	switch s {
	case SortCreatedAsc:
		return "Created (oldest first)"
	case SortCreatedDesc:
		return "Created (newest first)"
	case SortDueAsc:
		return "Due date (earliest first)"
	case SortDueDesc:
		return "Due date (latest first)"
	case SortPriorityHighToLow:
		return "Priority (high to low)"
	case SortPriorityLowToHigh:
		return "Priority (low to high)"
	case SortStatus:
		return "Status"
	case SortTitleAsc:
		return "Title (A-Z)"
	case SortTitleDesc:
		return "Title (Z-A)"
	default:
		return string(s)
	}
}

// IsValid returns true if the sort mode is known.
func (s SortBy) IsValid() bool {
	for _, m := range AllSortModes() {
		if m == s {
			return true
		}
	}
	return false
}

// Next returns the sort mode following s in menu order, wrapping around.
func (s SortBy) Next() SortBy {
	modes := AllSortModes()
	for i, m := range modes {
		if m == s {
			return modes[(i+1)%len(modes)]
		}
	}
	return DefaultSortBy
}

// ParseSortBy parses a sort mode name. Dashes are accepted in place of underscores.
func ParseSortBy(v string) (SortBy, error) {
	s := SortBy(strings.ReplaceAll(v, "-", "_"))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, v)
	}
	return s, nil
}

// compare returns the ordering of a and b under the sort mode.
// Only the selected key is compared; ties are left to the stable sort.
func (s SortBy) compare(a, b Task) int {
	switch s {
	case SortCreatedAsc:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortCreatedDesc:
		return b.CreatedAt.Compare(a.CreatedAt)
	case SortDueAsc:
		return compareDue(a, b, false)
	case SortDueDesc:
		return compareDue(a, b, true)
	case SortPriorityHighToLow:
		return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
	case SortPriorityLowToHigh:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	case SortStatus:
		return cmp.Compare(a.Status.Rank(), b.Status.Rank())
	case SortTitleAsc:
		return strings.Compare(a.Title, b.Title)
	case SortTitleDesc:
		return strings.Compare(b.Title, a.Title)
	default:
		return b.CreatedAt.Compare(a.CreatedAt)
	}
}

// compareDue orders by due date. Tasks without a due date go last
// in both directions.
func compareDue(a, b Task, desc bool) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case desc:
		return b.DueDate.Compare(*a.DueDate)
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

// SortSnapshot orders tasks in place the way stores publish them:
// newest first, ties broken by ID.
func SortSnapshot(tasks []Task) {
	slices.SortFunc(tasks, func(a, b Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
