package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := baseTime.Add(d)
	return &t
}

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func fixtureTasks() []Task {
	return []Task{
		{ID: "1", Title: "Fix login bug", Description: "Android users", Priority: PriorityHigh, Status: StatusTodo, DueDate: at(12 * time.Hour), CreatedAt: baseTime.Add(-time.Hour)},
		{ID: "2", Title: "Update dependencies", Description: "latest stable", Priority: PriorityLow, Status: StatusDone, CreatedAt: baseTime.Add(-7 * 24 * time.Hour)},
		{ID: "3", Title: "Review pull requests", Description: "merge pending", Priority: PriorityMedium, Status: StatusTodo, DueDate: at(72 * time.Hour), CreatedAt: baseTime.Add(-24 * time.Hour)},
		{ID: "4", Title: "Implement dark mode", Description: "", Priority: PriorityMedium, Status: StatusInProgress, DueDate: at(120 * time.Hour), CreatedAt: baseTime.Add(-72 * time.Hour)},
	}
}

func TestFilterAndSort_SearchTitle(t *testing.T) {
	tasks := []Task{
		{ID: "a", Title: "Fix login bug", CreatedAt: baseTime},
		{ID: "b", Title: "Update dependencies", CreatedAt: baseTime.Add(time.Minute)},
	}
	q := DefaultQuery()
	q.Search = "bug"

	got := FilterAndSort(tasks, q)
	assert.Equal(t, []string{"Fix login bug"}, titles(got))
}

func TestFilterAndSort_SearchCaseInsensitive(t *testing.T) {
	q := DefaultQuery()
	q.Search = "FIX"
	assert.Equal(t, []string{"Fix login bug"}, titles(FilterAndSort(fixtureTasks(), q)))
}

func TestFilterAndSort_SearchDescription(t *testing.T) {
	q := DefaultQuery()
	q.Search = "android"
	assert.Equal(t, []string{"Fix login bug"}, titles(FilterAndSort(fixtureTasks(), q)))

	q.SearchDescription = false
	assert.Empty(t, FilterAndSort(fixtureTasks(), q))
}

func TestFilterAndSort_BlankSearchIsNoop(t *testing.T) {
	q := DefaultQuery()
	q.Search = "   "
	assert.Len(t, FilterAndSort(fixtureTasks(), q), 4)
}

func TestFilterAndSort_StatusThenPrioritySort(t *testing.T) {
	// Status filter TODO, sort priority high to low
	q := DefaultQuery()
	todo := StatusTodo
	q.Status = &todo
	q.SortBy = SortPriorityHighToLow

	got := FilterAndSort(fixtureTasks(), q)
	assert.Equal(t, []string{"Fix login bug", "Review pull requests"}, titles(got))
}

func TestFilterAndSort_PriorityFilter(t *testing.T) {
	q := DefaultQuery()
	medium := PriorityMedium
	q.Priority = &medium
	q.SortBy = SortTitleAsc

	got := FilterAndSort(fixtureTasks(), q)
	assert.Equal(t, []string{"Implement dark mode", "Review pull requests"}, titles(got))
}

func TestFilterAndSort_FiltersCompose(t *testing.T) {
	q := DefaultQuery()
	q.Search = "e"
	done := StatusDone
	q.Status = &done
	low := PriorityLow
	q.Priority = &low

	assert.Equal(t, []string{"Update dependencies"}, titles(FilterAndSort(fixtureTasks(), q)))
}

func TestFilterAndSort_SortModes(t *testing.T) {
	tests := []struct {
		sort SortBy
		want []string
	}{
		{SortCreatedDesc, []string{"Fix login bug", "Review pull requests", "Implement dark mode", "Update dependencies"}},
		{SortCreatedAsc, []string{"Update dependencies", "Implement dark mode", "Review pull requests", "Fix login bug"}},
		{SortDueAsc, []string{"Fix login bug", "Review pull requests", "Implement dark mode", "Update dependencies"}},
		{SortDueDesc, []string{"Implement dark mode", "Review pull requests", "Fix login bug", "Update dependencies"}},
		{SortPriorityHighToLow, []string{"Fix login bug", "Review pull requests", "Implement dark mode", "Update dependencies"}},
		{SortPriorityLowToHigh, []string{"Update dependencies", "Review pull requests", "Implement dark mode", "Fix login bug"}},
		{SortStatus, []string{"Fix login bug", "Review pull requests", "Implement dark mode", "Update dependencies"}},
		{SortTitleAsc, []string{"Fix login bug", "Implement dark mode", "Review pull requests", "Update dependencies"}},
		{SortTitleDesc, []string{"Update dependencies", "Review pull requests", "Implement dark mode", "Fix login bug"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			q := DefaultQuery()
			q.SortBy = tt.sort
			assert.Equal(t, tt.want, titles(FilterAndSort(fixtureTasks(), q)))
		})
	}
}

func TestFilterAndSort_NoDueDateSortsLast(t *testing.T) {
	tasks := []Task{
		{ID: "none", Title: "none", CreatedAt: baseTime},
		{ID: "late", Title: "late", DueDate: at(48 * time.Hour), CreatedAt: baseTime},
		{ID: "early", Title: "early", DueDate: at(time.Hour), CreatedAt: baseTime},
	}
	for _, sortBy := range []SortBy{SortDueAsc, SortDueDesc} {
		t.Run(string(sortBy), func(t *testing.T) {
			q := DefaultQuery()
			q.SortBy = sortBy
			got := FilterAndSort(tasks, q)
			require.Len(t, got, 3)
			assert.Equal(t, "none", got[2].Title)
		})
	}
}

func TestFilterAndSort_Stable(t *testing.T) {
	// Equal keys keep input order
	tasks := []Task{
		{ID: "1", Title: "first", Priority: PriorityHigh, CreatedAt: baseTime},
		{ID: "2", Title: "second", Priority: PriorityLow, CreatedAt: baseTime},
		{ID: "3", Title: "third", Priority: PriorityHigh, CreatedAt: baseTime},
		{ID: "4", Title: "fourth", Priority: PriorityHigh, CreatedAt: baseTime},
	}
	q := DefaultQuery()
	q.SortBy = SortPriorityHighToLow
	assert.Equal(t, []string{"first", "third", "fourth", "second"}, titles(FilterAndSort(tasks, q)))

	q.SortBy = SortCreatedDesc
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, titles(FilterAndSort(tasks, q)))
}

func TestFilterAndSort_Deterministic(t *testing.T) {
	q := DefaultQuery()
	q.Search = "e"
	q.SortBy = SortDueDesc
	tasks := fixtureTasks()

	first := FilterAndSort(tasks, q)
	for range 10 {
		assert.Equal(t, first, FilterAndSort(tasks, q))
	}
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	tasks := fixtureTasks()
	before := append([]Task(nil), tasks...)

	q := DefaultQuery()
	q.SortBy = SortTitleDesc
	_ = FilterAndSort(tasks, q)
	assert.Equal(t, before, tasks)
}

func TestFilterAndSort_EmptySortUsesDefault(t *testing.T) {
	got := FilterAndSort(fixtureTasks(), Query{})
	assert.Equal(t, "Fix login bug", got[0].Title)
}

func TestQuery_Cleared(t *testing.T) {
	q := DefaultQuery()
	q.Search = "bug"
	high := PriorityHigh
	q.Priority = &high
	q.SortBy = SortTitleAsc
	q.SearchDescription = false

	cleared := q.Cleared()
	assert.False(t, cleared.IsFiltered())
	assert.Equal(t, DefaultSortBy, cleared.SortBy)
	assert.False(t, cleared.SearchDescription)

	// Clearing twice equals clearing once
	assert.Equal(t, cleared, cleared.Cleared())
	assert.Equal(t, FilterAndSort(fixtureTasks(), cleared), FilterAndSort(fixtureTasks(), cleared.Cleared()))
}

func TestSortBy_Parse(t *testing.T) {
	got, err := ParseSortBy("priority-desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriorityHighToLow, got)

	_, err = ParseSortBy("random")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestSortBy_NextCyclesAllModes(t *testing.T) {
	seen := map[SortBy]bool{}
	s := DefaultSortBy
	for range AllSortModes() {
		seen[s] = true
		s = s.Next()
	}
	assert.Equal(t, DefaultSortBy, s)
	assert.Len(t, seen, len(AllSortModes()))
}
