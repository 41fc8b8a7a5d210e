package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/infra/jsonstore"
	"github.com/runoshun/taskman/internal/infra/memstore"
	"github.com/runoshun/taskman/internal/infra/redisstore"
	"github.com/runoshun/taskman/internal/testutil"
)

func writeLocalConfig(t *testing.T, dataDir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(domain.LocalConfigPath(dataDir), []byte(content), 0o644))
}

func TestNew_DefaultsToJSONStore(t *testing.T) {
	dataDir := t.TempDir()

	c, err := NewWithGlobalDir(context.Background(), dataDir, "")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	store, ok := c.Store.(*jsonstore.Store)
	require.True(t, ok, "expected json store, got %T", c.Store)
	assert.Equal(t, filepath.Join(dataDir, domain.TasksFileName), store.Path())
	assert.Equal(t, dataDir, c.Config.DataDir)
}

func TestNew_StoreSelection(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		dataDir := t.TempDir()
		writeLocalConfig(t, dataDir, "[store]\ntype = \"memory\"\n")

		c, err := NewWithGlobalDir(context.Background(), dataDir, "")
		require.NoError(t, err)
		defer func() { _ = c.Close() }()
		assert.IsType(t, &memstore.Store{}, c.Store)
	})

	t.Run("redis", func(t *testing.T) {
		dataDir := t.TempDir()
		writeLocalConfig(t, dataDir, "[store]\ntype = \"redis\"\nredis_addr = \"127.0.0.1:1\"\n")

		c, err := NewWithGlobalDir(context.Background(), dataDir, "")
		require.NoError(t, err)
		defer func() { _ = c.Close() }()
		assert.IsType(t, &redisstore.Store{}, c.Store)
	})

	t.Run("custom json path", func(t *testing.T) {
		dataDir := t.TempDir()
		custom := filepath.Join(t.TempDir(), "mine.json")
		writeLocalConfig(t, dataDir, "[store]\npath = \""+custom+"\"\n")

		c, err := NewWithGlobalDir(context.Background(), dataDir, "")
		require.NoError(t, err)
		defer func() { _ = c.Close() }()
		assert.Equal(t, custom, c.Config.StorePath)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		dataDir := t.TempDir()
		writeLocalConfig(t, dataDir, "[store]\ntype = \"postgres\"\n")

		_, err := NewWithGlobalDir(context.Background(), dataDir, "")
		assert.ErrorContains(t, err, "postgres_dsn")
	})

	t.Run("unknown", func(t *testing.T) {
		dataDir := t.TempDir()
		writeLocalConfig(t, dataDir, "[store]\ntype = \"sqlite\"\n")

		_, err := NewWithGlobalDir(context.Background(), dataDir, "")
		assert.ErrorIs(t, err, domain.ErrUnknownStore)
	})
}

func TestContainer_ListEngineUsesConfiguredSort(t *testing.T) {
	dataDir := t.TempDir()
	writeLocalConfig(t, dataDir, "[store]\ntype = \"memory\"\n\n[list]\ndefault_sort = \"title_asc\"\n")

	c, err := NewWithGlobalDir(context.Background(), dataDir, "")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, domain.SortTitleAsc, c.ListEngine().State().Query.SortBy)
}

func TestNewWithDeps(t *testing.T) {
	store := testutil.NewMockTaskStore()
	c := NewWithDeps(Config{DataDir: t.TempDir()}, store, store, &testutil.MockClock{}, &testutil.MockIDGenerator{})

	c.CreateEngine().SetTitle("From container")
	assert.NotNil(t, c.DetailEngine())
	assert.NotNil(t, c.ShowLogsUseCase())
	assert.NoError(t, c.Close())
}
