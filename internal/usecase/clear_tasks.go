package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase/shared"
)

// ClearTasksInput contains the parameters for clearing tasks.
type ClearTasksInput struct {
	DoneOnly bool // Only remove completed tasks
}

// ClearTasksOutput contains the result of clearing tasks.
type ClearTasksOutput struct {
	Deleted int
}

// ClearTasks removes tasks in bulk.
type ClearTasks struct {
	store  domain.TaskStore
	logger domain.Logger
}

// NewClearTasks creates a new ClearTasks use case.
func NewClearTasks(store domain.TaskStore, logger domain.Logger) *ClearTasks {
	return &ClearTasks{
		store:  store,
		logger: logger,
	}
}

// Execute deletes every task, or only completed ones when DoneOnly is set.
func (uc *ClearTasks) Execute(ctx context.Context, in ClearTasksInput) (*ClearTasksOutput, error) {
	tasks, err := shared.LoadTasks(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	if !in.DoneOnly {
		if err := uc.store.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("delete all tasks: %w", err)
		}
		uc.log("", fmt.Sprintf("cleared %d tasks", len(tasks)))
		return &ClearTasksOutput{Deleted: len(tasks)}, nil
	}

	deleted := 0
	for _, task := range tasks {
		if !task.IsDone() {
			continue
		}
		if err := uc.store.Delete(ctx, task.ID); err != nil {
			return nil, fmt.Errorf("delete task %s: %w", task.ID, err)
		}
		uc.log(task.ID, "deleted (clear done)")
		deleted++
	}
	return &ClearTasksOutput{Deleted: deleted}, nil
}

func (uc *ClearTasks) log(taskID, msg string) {
	if uc.logger != nil {
		uc.logger.Info(taskID, "clear", msg)
	}
}
