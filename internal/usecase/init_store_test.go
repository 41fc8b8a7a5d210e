package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/testutil"
	"github.com/runoshun/taskman/internal/usecase"
)

func TestInitStore_Execute(t *testing.T) {
	t.Run("initializes store and writes config", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "taskman")
		storeInit := &testutil.MockStoreInitializer{}
		manager := testutil.NewMockConfigManager()
		manager.LocalConfigInfo.Path = filepath.Join(dataDir, "config.toml")
		logger := &testutil.MockLogger{}

		uc := usecase.NewInitStore(storeInit, manager, logger)
		out, err := uc.Execute(context.Background(), usecase.InitStoreInput{DataDir: dataDir})

		require.NoError(t, err)
		assert.True(t, storeInit.Initialized)
		assert.True(t, manager.InitLocalCalled)
		assert.True(t, out.ConfigCreated)
		assert.Equal(t, dataDir, out.DataDir)
		assert.DirExists(t, dataDir)
		assert.Equal(t, 1, logger.Count("INFO"))
	})

	t.Run("keeps existing config", func(t *testing.T) {
		storeInit := &testutil.MockStoreInitializer{}
		manager := testutil.NewMockConfigManager()
		manager.LocalConfigInfo.Exists = true

		uc := usecase.NewInitStore(storeInit, manager, nil)
		out, err := uc.Execute(context.Background(), usecase.InitStoreInput{DataDir: t.TempDir()})

		require.NoError(t, err)
		assert.False(t, manager.InitLocalCalled)
		assert.False(t, out.ConfigCreated)
	})

	t.Run("without config manager", func(t *testing.T) {
		storeInit := &testutil.MockStoreInitializer{}

		out, err := usecase.NewInitStore(storeInit, nil, nil).
			Execute(context.Background(), usecase.InitStoreInput{DataDir: t.TempDir()})

		require.NoError(t, err)
		assert.Empty(t, out.ConfigPath)
	})

	t.Run("store error", func(t *testing.T) {
		storeInit := &testutil.MockStoreInitializer{InitErr: errors.New("connection refused")}

		_, err := usecase.NewInitStore(storeInit, nil, nil).
			Execute(context.Background(), usecase.InitStoreInput{DataDir: t.TempDir()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "initialize task store")
	})
}
