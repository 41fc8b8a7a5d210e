package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/usecase/shared"
)

// LogTailer reads back entries written by the file logger.
type LogTailer interface {
	Path() string
	Tail(taskID string, n int) ([]string, error)
}

// ShowLogsInput contains the parameters for showing log entries.
type ShowLogsInput struct {
	TaskID string // Only entries for this task (empty = all)
	Lines  int    // Number of lines to return from the end (0 = all)
}

// ShowLogsOutput contains the result of showing log entries.
type ShowLogsOutput struct {
	LogPath string   // Path to the log file
	Lines   []string // Matching log lines, oldest first
}

// ShowLogs is the use case for viewing the operational log.
type ShowLogs struct {
	store domain.TaskStore
	logs  LogTailer
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(store domain.TaskStore, logs LogTailer) *ShowLogs {
	return &ShowLogs{
		store: store,
		logs:  logs,
	}
}

// Execute returns the matching log lines. A task filter is only accepted
// for tasks that still exist.
func (uc *ShowLogs) Execute(ctx context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	if in.TaskID != "" && uc.store != nil {
		if _, err := shared.GetTask(ctx, uc.store, in.TaskID); err != nil {
			return nil, err
		}
	}

	lines, err := uc.logs.Tail(in.TaskID, in.Lines)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}

	return &ShowLogsOutput{
		LogPath: uc.logs.Path(),
		Lines:   lines,
	}, nil
}
