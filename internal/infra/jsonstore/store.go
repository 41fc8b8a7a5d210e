// Package jsonstore provides a JSON file-based implementation of domain.TaskStore.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/pubsub"
)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks map[string]*taskData `json:"tasks"`
	Meta  meta                 `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Version int `json:"version"`
}

// storeVersion is the current file format version.
const storeVersion = 1

// taskData is the JSON representation of a task (the map key duplicates the ID).
type taskData = domain.Task

// Store implements domain.TaskStore using a JSON file.
// Every write republishes the full task list to observers. When a poll
// interval is set, changes made by other processes are picked up too.
type Store struct {
	lastMod      time.Time
	logger       domain.Logger
	broker       *pubsub.Broker[[]domain.Task]
	stopPoll     context.CancelFunc
	path         string
	lockPath     string
	pollInterval time.Duration
	watchers     int
	mu           sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPollInterval enables change detection for writes from other processes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		s.pollInterval = d
	}
}

// WithLogger sets the logger used for poll errors.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a new Store for the given file path.
// The file must be created with Initialize before use.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		lockPath: path + ".lock",
		broker:   pubsub.New[[]domain.Task](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Observe returns a channel receiving the current task list and every later one.
func (s *Store) Observe(ctx context.Context) (<-chan []domain.Task, error) {
	var snapshot []domain.Task
	if err := s.withLock(func(data *storeData) error {
		snapshot = snapshotOf(data)
		return nil
	}); err != nil {
		return nil, err
	}
	s.publish(snapshot)

	ch := s.broker.Subscribe(ctx)
	s.addWatcher()
	go func() {
		<-ctx.Done()
		s.removeWatcher()
	}()
	return ch, nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(_ context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		if t, ok := data.Tasks[id]; ok {
			copied := *t
			copied.ID = id
			task = &copied
		}
		return nil
	})
	return task, err
}

// Insert stores a task, replacing any task with the same ID.
func (s *Store) Insert(_ context.Context, task domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks[task.ID] = &task
		return nil
	})
}

// Update replaces an existing task.
func (s *Store) Update(_ context.Context, task domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		if _, ok := data.Tasks[task.ID]; !ok {
			return domain.ErrTaskNotFound
		}
		data.Tasks[task.ID] = &task
		return nil
	})
}

// Delete removes a task by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Tasks, id)
		return nil
	})
}

// DeleteAll removes every task.
func (s *Store) DeleteAll(_ context.Context) error {
	return s.withLockWrite(func(data *storeData) error {
		clear(data.Tasks)
		return nil
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	data := &storeData{
		Meta:  meta{Version: storeVersion},
		Tasks: make(map[string]*taskData),
	}
	return s.write(data)
}

// Close stops change polling and ends all observe streams.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.stopPoll != nil {
		s.stopPoll()
		s.stopPoll = nil
	}
	s.mu.Unlock()
	s.broker.Close()
	return nil
}

func (s *Store) addWatcher() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers++
	if s.watchers == 1 && s.pollInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopPoll = cancel
		go s.poll(ctx)
	}
}

func (s *Store) removeWatcher() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers--
	if s.watchers == 0 && s.stopPoll != nil {
		s.stopPoll()
		s.stopPoll = nil
	}
}

// poll republishes the task list when the file changes on disk.
func (s *Store) poll(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := os.Stat(s.path)
		if err != nil {
			continue
		}
		s.mu.Lock()
		changed := !info.ModTime().Equal(s.lastMod)
		s.mu.Unlock()
		if !changed {
			continue
		}

		var snapshot []domain.Task
		if err := s.withLock(func(data *storeData) error {
			snapshot = snapshotOf(data)
			return nil
		}); err != nil {
			if s.logger != nil {
				s.logger.Warn("", "store", fmt.Sprintf("poll %s: %v", s.path, err))
			}
			continue
		}
		s.publish(snapshot)
	}
}

func (s *Store) publish(snapshot []domain.Task) {
	if info, err := os.Stat(s.path); err == nil {
		s.mu.Lock()
		s.lastMod = info.ModTime()
		s.mu.Unlock()
	}
	s.broker.Publish(snapshot)
}

// snapshotOf returns the tasks in publish order.
func snapshotOf(data *storeData) []domain.Task {
	tasks := make([]domain.Task, 0, len(data.Tasks))
	for id, t := range data.Tasks {
		task := *t
		task.ID = id
		tasks = append(tasks, task)
	}
	domain.SortSnapshot(tasks)
	return tasks
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock, writes the result
// and publishes the new task list.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	if err := s.write(data); err != nil {
		return err
	}
	s.publish(snapshotOf(data))
	return nil
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	// Ensure maps are initialized
	if data.Tasks == nil {
		data.Tasks = make(map[string]*taskData)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
