package domain

import (
	"context"
	"time"
)

// TaskStore is the persistence contract the engines depend on.
// The store is the single source of truth: every successful write is
// republished to all observers as a full snapshot.
type TaskStore interface {
	// Observe returns a channel that first receives the current snapshot
	// and then a new snapshot after every change. Snapshots are ordered by
	// CreatedAt descending, ties by ID. The channel is closed when ctx is done.
	Observe(ctx context.Context) (<-chan []Task, error)

	// Get retrieves a task by ID. Returns nil if not found.
	Get(ctx context.Context, id string) (*Task, error)

	// Insert stores a new task, replacing any task with the same ID.
	Insert(ctx context.Context, task Task) error

	// Update replaces the task with the same ID. Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, task Task) error

	// Delete removes a task by ID. Deleting a missing task is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every task.
	DeleteAll(ctx context.Context) error
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces identifiers for new tasks.
type IDGenerator interface {
	// NewID returns a fresh, unique, non-empty identifier.
	NewID() string
}

// Logger writes operational log entries.
// taskID may be empty for entries not tied to a task.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns information about the data-dir config file.
	GetLocalConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitLocalConfig writes the default template to the data-dir config file.
	InitLocalConfig(cfg *Config) error

	// InitGlobalConfig writes the default template to the global config file.
	InitGlobalConfig(cfg *Config) error
}
