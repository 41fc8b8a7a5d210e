package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/domain"
)

func TestManager_GetLocalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		dataDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(dataDir, domain.ConfigFileName), []byte(configContent), 0o644)
		require.NoError(t, err)

		info := NewManagerWithGlobalDir(dataDir, "").GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		dataDir := t.TempDir()

		info := NewManagerWithGlobalDir(dataDir, "").GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("no global directory", func(t *testing.T) {
		info := NewManagerWithGlobalDir(t.TempDir(), "").GetGlobalConfigInfo()
		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})

	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte("x = 1"), 0o644))

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()
		assert.True(t, info.Exists)
		assert.Equal(t, "x = 1", info.Content)
	})
}

func TestManager_InitLocalConfig(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "taskman")
	manager := NewManagerWithGlobalDir(dataDir, "")

	require.NoError(t, manager.InitLocalConfig(domain.NewDefaultConfig()))

	info := manager.GetLocalConfigInfo()
	assert.True(t, info.Exists)
	assert.Contains(t, info.Content, "[store]")

	err := manager.InitLocalConfig(domain.NewDefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_InitGlobalConfig(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "config", "taskman")
	manager := NewManagerWithGlobalDir("", globalDir)

	require.NoError(t, manager.InitGlobalConfig(domain.NewDefaultConfig()))
	assert.True(t, manager.GetGlobalConfigInfo().Exists)
	assert.ErrorIs(t, manager.InitGlobalConfig(domain.NewDefaultConfig()), domain.ErrConfigExists)

	err := NewManagerWithGlobalDir("", "").InitGlobalConfig(domain.NewDefaultConfig())
	assert.Error(t, err)
}
