package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/infra/logging"
)

func TestNewClearCommand(t *testing.T) {
	t.Run("requires --yes", func(t *testing.T) {
		c, store := newTestContainer(t, listFixture()...)
		_, err := execute(t, newClearCommand(c))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
		assert.Equal(t, 0, store.CallCount("DeleteAll"))
	})

	t.Run("done only", func(t *testing.T) {
		c, store := newTestContainer(t, listFixture()...)
		out, err := execute(t, newClearCommand(c), "--done", "-y")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 1 task(s)")
		assert.Nil(t, getTask(t, store, "c3"))
		assert.NotNil(t, getTask(t, store, "a1"))
	})

	t.Run("everything", func(t *testing.T) {
		c, store := newTestContainer(t, listFixture()...)
		out, err := execute(t, newClearCommand(c), "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 3 task(s)")
		assert.Nil(t, getTask(t, store, "a1"))
	})
}

func TestNewExportCommand(t *testing.T) {
	c, _ := newTestContainer(t, listFixture()...)

	out, err := execute(t, newExportCommand(c), "--format", "yaml", "--status", "todo")
	require.NoError(t, err)

	var doc struct {
		Tasks []domain.Task `yaml:"tasks"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "a1", doc.Tasks[0].ID)

	c, _ = newTestContainer(t, listFixture()...)
	out, err = execute(t, newExportCommand(c))
	require.NoError(t, err)
	assert.Contains(t, out, `"exportedAt"`)
	assert.Contains(t, out, `"c3"`)

	_, err = execute(t, newExportCommand(c), "--format", "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestNewSeedCommand(t *testing.T) {
	c, store := newTestContainer(t)

	out, err := execute(t, newSeedCommand(c))
	require.NoError(t, err)
	assert.Contains(t, out, "sample task(s)")
	inserted := store.CallCount("Insert")
	assert.Positive(t, inserted)

	_, err = execute(t, newSeedCommand(c))
	assert.ErrorIs(t, err, domain.ErrStoreNotEmpty)
	assert.Contains(t, err.Error(), "--replace")

	_, err = execute(t, newSeedCommand(c), "--replace")
	require.NoError(t, err)
	assert.Equal(t, 1, store.CallCount("DeleteAll"))
	assert.Equal(t, 2*inserted, store.CallCount("Insert"))
}

func TestNewLogsCommand(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, _ := newTestContainer(t)
		_, err := execute(t, newLogsCommand(c))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})

	t.Run("entries", func(t *testing.T) {
		c, _ := newTestContainer(t, listFixture()...)
		c.TaskLog = logging.New(c.Config.DataDir, 0)
		t.Cleanup(func() { _ = c.TaskLog.Close() })

		out, err := execute(t, newLogsCommand(c))
		require.NoError(t, err)
		assert.Contains(t, out, "No log entries")

		_, err = execute(t, newDoneCommand(c), "a1")
		require.NoError(t, err)
		_, err = execute(t, newDoneCommand(c), "b2")
		require.NoError(t, err)

		out, err = execute(t, newLogsCommand(c), "a")
		require.NoError(t, err)
		assert.Contains(t, out, "task-a1")
		assert.NotContains(t, out, "task-b2")

		_, err = os.Stat(c.TaskLog.Path())
		assert.NoError(t, err)
	})
}
