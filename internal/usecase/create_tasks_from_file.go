package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskman/internal/domain"
)

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Content string // File content (Markdown with frontmatter)
	DryRun  bool   // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Tasks []domain.Task // Created tasks (or tasks that would be created in dry-run mode)
}

// CreateTasksFromFile is the use case for creating tasks from a file.
type CreateTasksFromFile struct {
	store  domain.TaskStore
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(
	store domain.TaskStore,
	ids domain.IDGenerator,
	clock domain.Clock,
	logger domain.Logger,
) *CreateTasksFromFile {
	return &CreateTasksFromFile{
		store:  store,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates tasks from the given file content.
// Every block is validated before anything is written, so a bad block
// leaves the store untouched.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	// Later blocks get later creation times so file order survives sorting
	now := uc.clock.Now().Truncate(time.Millisecond)
	tasks := make([]domain.Task, 0, len(drafts))
	for i, draft := range drafts {
		tasks = append(tasks, domain.Task{
			ID:        uc.ids.NewID(),
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}.Apply(draft.Edit()))
	}

	if in.DryRun {
		return &CreateTasksFromFileOutput{Tasks: tasks}, nil
	}

	for i, task := range tasks {
		if err := uc.store.Insert(ctx, task); err != nil {
			return nil, fmt.Errorf("task %d: insert task: %w", i+1, err)
		}
		if uc.logger != nil {
			uc.logger.Info(task.ID, "task", fmt.Sprintf("created from file: %q", task.Title))
		}
	}

	return &CreateTasksFromFileOutput{Tasks: tasks}, nil
}
