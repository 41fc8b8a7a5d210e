// Package shared holds helpers used by several use cases.
package shared

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskman/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := store.Get(ctx, id)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(ctx context.Context, store domain.TaskStore, id string) (*domain.Task, error) {
	task, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// LoadTasks returns the store's current snapshot.
// It opens an observe stream, takes the first value and closes the stream.
func LoadTasks(ctx context.Context, store domain.TaskStore) ([]domain.Task, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots, err := store.Observe(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe tasks: %w", err)
	}
	select {
	case tasks, ok := <-snapshots:
		if !ok {
			return nil, fmt.Errorf("observe tasks: stream closed")
		}
		return tasks, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ResolveTaskID maps a full ID or a unique ID prefix to the full ID.
func ResolveTaskID(ctx context.Context, store domain.TaskStore, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", domain.ErrTaskNotFound
	}
	task, err := store.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("get task: %w", err)
	}
	if task != nil {
		return task.ID, nil
	}

	tasks, err := LoadTasks(ctx, store)
	if err != nil {
		return "", err
	}
	match := ""
	for _, t := range tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", domain.ErrAmbiguousID, ref)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrTaskNotFound, ref)
	}
	return match, nil
}
