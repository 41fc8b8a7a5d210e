// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/infra/memstore"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockIDGenerator is a test double for domain.IDGenerator.
// IDs are "<Prefix><n>" starting at 1.
type MockIDGenerator struct {
	Prefix string
	n      int
	mu     sync.Mutex
}

// NewID returns the next sequential ID.
func (m *MockIDGenerator) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	prefix := m.Prefix
	if prefix == "" {
		prefix = "task-"
	}
	return fmt.Sprintf("%s%d", prefix, m.n)
}

// MockTaskStore is a test double for domain.TaskStore.
// It behaves like the in-memory store unless an error is configured.
// Fields are ordered to minimize memory padding.
type MockTaskStore struct {
	*memstore.Store
	ObserveErr error
	GetErr     error
	InsertErr  error
	UpdateErr  error
	DeleteErr  error
	ClearErr   error
	// InsertGate, if set, is received from before each Insert proceeds.
	InsertGate chan struct{}
	Calls      map[string]int
	mu         sync.Mutex
}

// NewMockTaskStore creates a MockTaskStore holding tasks.
func NewMockTaskStore(tasks ...domain.Task) *MockTaskStore {
	return &MockTaskStore{
		Store: memstore.New(tasks...),
		Calls: make(map[string]int),
	}
}

// Ensure MockTaskStore implements domain.TaskStore interface.
var _ domain.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) record(op string) {
	m.mu.Lock()
	m.Calls[op]++
	m.mu.Unlock()
}

// CallCount returns how many times op was called.
func (m *MockTaskStore) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

// Observe returns the configured error or the in-memory stream.
func (m *MockTaskStore) Observe(ctx context.Context) (<-chan []domain.Task, error) {
	m.record("Observe")
	if m.ObserveErr != nil {
		return nil, m.ObserveErr
	}
	return m.Store.Observe(ctx)
}

// Get returns the configured error or the stored task.
func (m *MockTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	m.record("Get")
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Store.Get(ctx, id)
}

// Insert returns the configured error or stores the task.
func (m *MockTaskStore) Insert(ctx context.Context, task domain.Task) error {
	m.record("Insert")
	if m.InsertGate != nil {
		<-m.InsertGate
	}
	if m.InsertErr != nil {
		return m.InsertErr
	}
	return m.Store.Insert(ctx, task)
}

// Update returns the configured error or replaces the task.
func (m *MockTaskStore) Update(ctx context.Context, task domain.Task) error {
	m.record("Update")
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	return m.Store.Update(ctx, task)
}

// Delete returns the configured error or removes the task.
func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.Delete(ctx, id)
}

// DeleteAll returns the configured error or removes every task.
func (m *MockTaskStore) DeleteAll(ctx context.Context) error {
	m.record("DeleteAll")
	if m.ClearErr != nil {
		return m.ClearErr
	}
	return m.Store.DeleteAll(ctx)
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store as initialized.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// LogEntry is a single entry recorded by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
	m.mu.Unlock()
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("INFO", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("ERROR", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path: "/test/.local/share/taskman/config.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/test/.config/taskman/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
