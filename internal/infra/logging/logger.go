// Package logging provides file-based logging for taskman.
// Entries are appended to <data dir>/logs/taskman.log.
package logging

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskman/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled entries to the taskman log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file    *os.File
	now     func() time.Time
	dataDir string
	mu      sync.Mutex
	level   slog.Level
}

// New creates a new Logger that writes to the log file under dataDir.
// If dataDir is empty, logging is disabled (returns a no-op logger).
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir: dataDir,
		level:   level,
		now:     time.Now,
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Path returns the log file path, or "" when logging is disabled.
func (l *Logger) Path() string {
	if l.dataDir == "" {
		return ""
	}
	return domain.LogPath(l.dataDir)
}

// ensureFile opens or returns the log file. Caller must hold l.mu.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [task-0190...] [category] message
func formatLog(t time.Time, level slog.Level, taskID, category, msg string) string {
	taskStr := "global"
	if taskID != "" {
		taskStr = "task-" + taskID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		taskStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID, category, msg string) {
	if l.dataDir == "" {
		return // Logging disabled
	}
	if level < l.level {
		return
	}

	entry := formatLog(l.now(), level, taskID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, err := l.ensureFile(); err == nil {
		_, _ = io.WriteString(f, entry)
	}
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}

// Tail returns the last n lines of the log file, optionally only those for
// taskID. n <= 0 returns every matching line. A missing file yields no lines.
func (l *Logger) Tail(taskID string, n int) ([]string, error) {
	path := l.Path()
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	marker := ""
	if taskID != "" {
		marker = "[task-" + taskID + "]"
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if marker != "" && !strings.Contains(line, marker) {
			continue
		}
		lines = append(lines, line)
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return lines, nil
}
