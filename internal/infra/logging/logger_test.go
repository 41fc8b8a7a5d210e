package logging

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_Info(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	logger.now = func() time.Time { return time.Date(2025, 12, 30, 9, 32, 51, 0, time.Local) }
	defer func() { _ = logger.Close() }()

	logger.Info("abc", "task", "created: \"Fix login bug\"")

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Equal(t, "[2025-12-30 09:32:51] [INFO] [task-abc] [task] created: \"Fix login bug\"\n", string(content))
}

func TestLogger_Global(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Error("", "list", "observe tasks: boom")

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[ERROR] [global] [list] observe tasks: boom")
}

func TestLogger_LevelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("", "x", "debug message")
	logger.Info("", "x", "info message")
	logger.Warn("", "x", "warn message")

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
}

func TestLogger_Disabled(t *testing.T) {
	logger := New("", slog.LevelDebug)
	logger.Info("1", "task", "nothing")
	assert.Equal(t, "", logger.Path())

	lines, err := logger.Tail("", 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
	require.NoError(t, logger.Close())
}

func TestLogger_Tail(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	// Missing file is not an error
	lines, err := logger.Tail("", 5)
	require.NoError(t, err)
	assert.Empty(t, lines)

	for i := range 5 {
		logger.Info("a", "task", strings.Repeat("x", i+1))
		logger.Info("b", "task", "other")
	}

	lines, err = logger.Tail("a", 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "xxxx"))
	assert.True(t, strings.HasSuffix(lines[1], "xxxxx"))

	all, err := logger.Tail("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
