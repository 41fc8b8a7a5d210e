package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/testutil"
	"github.com/runoshun/taskman/internal/usecase"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtureTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "Write docs", Priority: domain.PriorityHigh, Status: domain.StatusTodo, CreatedAt: baseTime},
		{ID: "2", Title: "Ship release", Priority: domain.PriorityLow, Status: domain.StatusDone, CreatedAt: baseTime.Add(time.Hour)},
		{ID: "3", Title: "Fix bug", Priority: domain.PriorityMedium, Status: domain.StatusDone, CreatedAt: baseTime.Add(2 * time.Hour)},
	}
}

func TestExportTasks_Execute(t *testing.T) {
	clock := &testutil.MockClock{NowTime: baseTime}

	t.Run("json", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)

		out, err := usecase.NewExportTasks(store, clock).Execute(context.Background(), usecase.ExportTasksInput{Format: usecase.FormatJSON})

		require.NoError(t, err)
		assert.Equal(t, 3, out.Count)
		var doc struct {
			Tasks []domain.Task `json:"tasks"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &doc))
		require.Len(t, doc.Tasks, 3)
		assert.Equal(t, "3", doc.Tasks[0].ID)
	})

	t.Run("yaml with query", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)
		done := domain.StatusDone
		q := domain.DefaultQuery()
		q.Status = &done
		q.SortBy = domain.SortTitleAsc

		out, err := usecase.NewExportTasks(store, clock).Execute(context.Background(), usecase.ExportTasksInput{
			Format: usecase.FormatYAML,
			Query:  &q,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		var doc struct {
			Tasks []struct {
				Title string `yaml:"title"`
			} `yaml:"tasks"`
		}
		require.NoError(t, yaml.Unmarshal(out.Data, &doc))
		require.Len(t, doc.Tasks, 2)
		assert.Equal(t, "Fix bug", doc.Tasks[0].Title)
		assert.Equal(t, "Ship release", doc.Tasks[1].Title)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := usecase.NewExportTasks(testutil.NewMockTaskStore(), clock).
			Execute(context.Background(), usecase.ExportTasksInput{Format: "csv"})
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})
}

func TestClearTasks_Execute(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)

		out, err := usecase.NewClearTasks(store, nil).Execute(context.Background(), usecase.ClearTasksInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, out.Deleted)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("done only", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)
		logger := &testutil.MockLogger{}

		out, err := usecase.NewClearTasks(store, logger).Execute(context.Background(), usecase.ClearTasksInput{DoneOnly: true})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Deleted)
		assert.Equal(t, 1, store.Len())
		assert.Equal(t, 2, logger.Count("INFO"))
	})

	t.Run("store failure", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)
		store.ClearErr = errors.New("read-only")

		_, err := usecase.NewClearTasks(store, nil).Execute(context.Background(), usecase.ClearTasksInput{})

		assert.ErrorContains(t, err, "read-only")
		assert.Equal(t, 3, store.Len())
	})
}

func TestSeedTasks_Execute(t *testing.T) {
	clock := &testutil.MockClock{NowTime: baseTime}

	t.Run("empty store", func(t *testing.T) {
		store := testutil.NewMockTaskStore()

		out, err := usecase.NewSeedTasks(store, &testutil.MockIDGenerator{Prefix: "s"}, clock, nil).
			Execute(context.Background(), usecase.SeedTasksInput{})

		require.NoError(t, err)
		assert.Len(t, out.Tasks, 8)
		assert.Equal(t, 8, store.Len())
	})

	t.Run("refuses non-empty store", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)

		_, err := usecase.NewSeedTasks(store, &testutil.MockIDGenerator{Prefix: "s"}, clock, nil).
			Execute(context.Background(), usecase.SeedTasksInput{})

		require.ErrorIs(t, err, domain.ErrStoreNotEmpty)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("replace", func(t *testing.T) {
		store := testutil.NewMockTaskStore(fixtureTasks()...)

		_, err := usecase.NewSeedTasks(store, &testutil.MockIDGenerator{Prefix: "s"}, clock, nil).
			Execute(context.Background(), usecase.SeedTasksInput{Replace: true})

		require.NoError(t, err)
		assert.Equal(t, 8, store.Len())
	})
}
