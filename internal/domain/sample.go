package domain

import "time"

// sampleTask describes a sample task relative to a reference time.
type sampleTask struct {
	title       string
	description string
	priority    Priority
	status      Status
	due         time.Duration // 0 = no due date
	age         time.Duration
}

var sampleTasks = []sampleTask{
	{"Complete project documentation", "Write comprehensive documentation for the task management app", PriorityHigh, StatusInProgress, 24 * time.Hour, 48 * time.Hour},
	{"Review pull requests", "Review and merge pending pull requests from team members", PriorityMedium, StatusTodo, 72 * time.Hour, 24 * time.Hour},
	{"Fix login bug", "Users reporting issues with login on Android devices", PriorityHigh, StatusTodo, 12 * time.Hour, time.Hour},
	{"Update dependencies", "Update all project dependencies to latest stable versions", PriorityLow, StatusDone, 0, 7 * 24 * time.Hour},
	{"Implement dark mode", "Add dark mode support across the application", PriorityMedium, StatusInProgress, 5 * 24 * time.Hour, 72 * time.Hour},
	{"Setup CI/CD pipeline", "Configure automated testing and deployment pipeline", PriorityHigh, StatusTodo, 48 * time.Hour, 12 * time.Hour},
	{"Design new app icon", "", PriorityLow, StatusTodo, 0, 6 * 24 * time.Hour},
	{"Optimize database queries", "Improve performance of database operations", PriorityMedium, StatusDone, 0, 10 * 24 * time.Hour},
}

// SampleTasks returns the built-in sample tasks with due and creation
// times relative to now. IDs are taken from ids.
func SampleTasks(now time.Time, ids IDGenerator) []Task {
	now = now.Truncate(time.Millisecond)
	tasks := make([]Task, 0, len(sampleTasks))
	for _, s := range sampleTasks {
		t := Task{
			ID:          ids.NewID(),
			Title:       s.title,
			Description: s.description,
			Priority:    s.priority,
			Status:      s.status,
			CreatedAt:   now.Add(-s.age),
		}
		if s.due != 0 {
			due := now.Add(s.due)
			t.DueDate = &due
		}
		tasks = append(tasks, t)
	}
	return tasks
}
