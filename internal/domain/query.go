package domain

import (
	"slices"
	"strings"
)

// Query holds the list criteria: search text, optional filters and the sort mode.
// Fields are ordered to minimize memory padding.
type Query struct {
	Status            *Status   // nil = any status
	Priority          *Priority // nil = any priority
	Search            string    // Case-insensitive substring; blank = no search
	SortBy            SortBy    // Empty = DefaultSortBy
	SearchDescription bool      // Also match the search text against descriptions
}

// DefaultQuery returns a query with no search, no filters and the default sort.
func DefaultQuery() Query {
	return Query{
		SortBy:            DefaultSortBy,
		SearchDescription: true,
	}
}

// Cleared returns a copy with search, filters and sort reset.
// SearchDescription is a setting rather than a criterion and is kept.
func (q Query) Cleared() Query {
	return Query{
		SortBy:            DefaultSortBy,
		SearchDescription: q.SearchDescription,
	}
}

// IsFiltered returns true if any criterion narrows the result.
func (q Query) IsFiltered() bool {
	return strings.TrimSpace(q.Search) != "" || q.Status != nil || q.Priority != nil
}

// Matches returns true if the task passes the search and filter stages.
func (q Query) Matches(t Task) bool {
	if strings.TrimSpace(q.Search) != "" {
		needle := strings.ToLower(q.Search)
		found := strings.Contains(strings.ToLower(t.Title), needle)
		if !found && q.SearchDescription {
			found = strings.Contains(strings.ToLower(t.Description), needle)
		}
		if !found {
			return false
		}
	}
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.Priority != nil && t.Priority != *q.Priority {
		return false
	}
	return true
}

// FilterAndSort applies the query to tasks: search, then status filter,
// then priority filter, then a stable sort on the selected key.
// The input slice is not modified; the result is always a new slice.
func FilterAndSort(tasks []Task, q Query) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Matches(t) {
			result = append(result, t)
		}
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	slices.SortStableFunc(result, sortBy.compare)
	return result
}
