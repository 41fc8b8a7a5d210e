// Package memstore provides an in-memory implementation of domain.TaskStore.
package memstore

import (
	"context"
	"sync"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/pubsub"
)

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Store keeps tasks in memory and publishes a snapshot after every write.
// Snapshots are shared between observers and must not be modified.
type Store struct {
	tasks  map[string]domain.Task
	broker *pubsub.Broker[[]domain.Task]
	mu     sync.Mutex
}

// New creates a Store holding the given tasks.
func New(tasks ...domain.Task) *Store {
	s := &Store{
		tasks:  make(map[string]domain.Task, len(tasks)),
		broker: pubsub.New[[]domain.Task](),
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	s.publishLocked()
	return s
}

// Initialize is a no-op; the store needs no setup.
func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// Observe returns a channel receiving the current snapshot and every later one.
func (s *Store) Observe(ctx context.Context) (<-chan []domain.Task, error) {
	return s.broker.Subscribe(ctx), nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(_ context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Insert stores a task, replacing any task with the same ID.
func (s *Store) Insert(_ context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	s.publishLocked()
	return nil
}

// Update replaces an existing task.
func (s *Store) Update(_ context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	s.tasks[task.ID] = task
	s.publishLocked()
	return nil
}

// Delete removes a task by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	s.publishLocked()
	return nil
}

// DeleteAll removes every task.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
	s.publishLocked()
	return nil
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close ends all observe streams.
func (s *Store) Close() error {
	s.broker.Close()
	return nil
}

func (s *Store) publishLocked() {
	snapshot := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		snapshot = append(snapshot, t)
	}
	domain.SortSnapshot(snapshot)
	s.broker.Publish(snapshot)
}
