package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase/shared"
)

// SeedTasksInput contains the parameters for seeding sample tasks.
type SeedTasksInput struct {
	Replace bool // Remove existing tasks first; otherwise the store must be empty
}

// SeedTasksOutput contains the inserted sample tasks.
type SeedTasksOutput struct {
	Tasks []domain.Task
}

// SeedTasks fills the store with sample tasks.
type SeedTasks struct {
	store  domain.TaskStore
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewSeedTasks creates a new SeedTasks use case.
func NewSeedTasks(store domain.TaskStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *SeedTasks {
	return &SeedTasks{
		store:  store,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Execute inserts the sample tasks with dates relative to now.
func (uc *SeedTasks) Execute(ctx context.Context, in SeedTasksInput) (*SeedTasksOutput, error) {
	if in.Replace {
		if err := uc.store.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("delete all tasks: %w", err)
		}
	} else {
		existing, err := shared.LoadTasks(ctx, uc.store)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w (%d tasks)", domain.ErrStoreNotEmpty, len(existing))
		}
	}

	tasks := domain.SampleTasks(uc.clock.Now(), uc.ids)
	for _, task := range tasks {
		if err := uc.store.Insert(ctx, task); err != nil {
			return nil, fmt.Errorf("insert sample task: %w", err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info("", "seed", fmt.Sprintf("inserted %d sample tasks", len(tasks)))
	}
	return &SeedTasksOutput{Tasks: tasks}, nil
}
