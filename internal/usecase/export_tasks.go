package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase/shared"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportTasksInput contains the parameters for exporting tasks.
type ExportTasksInput struct {
	Query  *domain.Query // Optional filter and order (nil = every task, newest first)
	Format string        // "json" or "yaml"
}

// ExportTasksOutput contains the encoded tasks.
type ExportTasksOutput struct {
	Data  []byte
	Count int
}

// exportDocument is the top-level shape of an export.
type exportDocument struct {
	ExportedAt time.Time     `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []domain.Task `json:"tasks" yaml:"tasks"`
}

// ExportTasks encodes the stored tasks for backup or scripting.
type ExportTasks struct {
	store domain.TaskStore
	clock domain.Clock
}

// NewExportTasks creates a new ExportTasks use case.
func NewExportTasks(store domain.TaskStore, clock domain.Clock) *ExportTasks {
	return &ExportTasks{
		store: store,
		clock: clock,
	}
}

// Execute encodes the current snapshot in the requested format.
func (uc *ExportTasks) Execute(ctx context.Context, in ExportTasksInput) (*ExportTasksOutput, error) {
	if in.Format != FormatJSON && in.Format != FormatYAML {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, in.Format)
	}

	tasks, err := shared.LoadTasks(ctx, uc.store)
	if err != nil {
		return nil, err
	}
	if in.Query != nil {
		tasks = domain.FilterAndSort(tasks, *in.Query)
	}

	doc := exportDocument{
		ExportedAt: uc.clock.Now().UTC().Truncate(time.Second),
		Tasks:      tasks,
	}

	var data []byte
	switch in.Format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}

	return &ExportTasksOutput{Data: data, Count: len(tasks)}, nil
}
