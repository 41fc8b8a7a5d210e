package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/infra/logging"
	"github.com/runoshun/taskman/internal/testutil"
)

func TestShowLogs_Execute(t *testing.T) {
	logger := logging.New(t.TempDir(), slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	logger.Info("a", "task", "created: \"A\"")
	logger.Info("b", "task", "created: \"B\"")
	logger.Warn("", "config", "unknown key")
	logger.Info("a", "task", "status: todo -> done")

	store := testutil.NewMockTaskStore(domain.Task{ID: "a", Title: "A"})
	uc := NewShowLogs(store, logger)

	t.Run("all lines", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowLogsInput{})

		require.NoError(t, err)
		assert.Equal(t, logger.Path(), out.LogPath)
		assert.Len(t, out.Lines, 4)
	})

	t.Run("last lines for one task", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowLogsInput{TaskID: "a", Lines: 1})

		require.NoError(t, err)
		require.Len(t, out.Lines, 1)
		assert.Contains(t, out.Lines[0], "status: todo -> done")
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ShowLogsInput{TaskID: "zzz"})

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
