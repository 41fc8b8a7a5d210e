// Package redisstore provides a Redis implementation of domain.TaskStore.
// Tasks live in one hash keyed by ID; every write publishes on a channel
// that observers subscribe to.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/pubsub"
)

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// record is the stored form of a task. Times are epoch milliseconds.
type record struct {
	DueDate     *int64          `json:"dueDate,omitempty"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	CreatedAt   int64           `json:"createdAt"`
}

func toRecord(t domain.Task) record {
	r := record{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   domain.EpochMillis(t.CreatedAt),
	}
	if t.DueDate != nil {
		ms := domain.EpochMillis(*t.DueDate)
		r.DueDate = &ms
	}
	return r
}

func (r record) task() domain.Task {
	t := domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		CreatedAt:   domain.FromEpochMillis(r.CreatedAt),
	}
	if r.DueDate != nil {
		d := domain.FromEpochMillis(*r.DueDate)
		t.DueDate = &d
	}
	return t
}

// updateScript replaces a hash field only if it exists.
var updateScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Store persists tasks in Redis.
type Store struct {
	client  *redis.Client
	logger  domain.Logger
	key     string
	channel string
	owned   bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for subscription errors.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store using client. Keys are namespaced by prefix.
// The caller owns the client.
func New(client *redis.Client, prefix string, opts ...Option) *Store {
	if prefix == "" {
		prefix = domain.DefaultRedisPrefix
	}
	s := &Store{
		client:  client,
		key:     prefix + ":tasks",
		channel: prefix + ":changed",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store with its own client for addr. The client connects
// lazily; Initialize checks that the server is reachable.
func Open(addr, prefix string, opts ...Option) *Store {
	s := New(redis.NewClient(&redis.Options{Addr: addr}), prefix, opts...)
	s.owned = true
	return s
}

// Close closes the client if the store opened it.
func (s *Store) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}

// Initialize checks the connection; Redis needs no schema.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Observe subscribes to change notifications and re-reads the hash after each.
func (s *Store) Observe(ctx context.Context) (<-chan []domain.Task, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	// Wait for the confirmation so no write between the snapshot and the
	// subscription is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	snapshot, err := s.list(ctx)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []domain.Task, 1)
	out <- snapshot

	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					if ctx.Err() == nil {
						s.logError("pubsub channel closed")
					}
					return
				}
				tasks, err := s.list(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logError("reload tasks: " + err.Error())
					continue
				}
				pubsub.SendLatest(out, tasks)
			}
		}
	}()
	return out, nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	data, err := s.client.HGet(ctx, s.key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}
	t := r.task()
	return &t, nil
}

// Insert stores a task, replacing any task with the same ID.
func (s *Store) Insert(ctx context.Context, task domain.Task) error {
	data, err := json.Marshal(toRecord(task))
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, task.ID, data)
		pipe.Publish(ctx, s.channel, task.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update replaces an existing task.
func (s *Store) Update(ctx context.Context, task domain.Task) error {
	data, err := json.Marshal(toRecord(task))
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	n, err := updateScript.Run(ctx, s.client, []string{s.key}, task.ID, string(data)).Int()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return s.publish(ctx, task.ID)
}

// Delete removes a task by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return nil
	}
	return s.publish(ctx, id)
}

// DeleteAll removes every task.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return s.publish(ctx, "")
}

func (s *Store) publish(ctx context.Context, payload string) error {
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

func (s *Store) list(ctx context.Context) ([]domain.Task, error) {
	vals, err := s.client.HVals(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(vals))
	for _, v := range vals {
		var r record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			s.logError("skip undecodable task: " + err.Error())
			continue
		}
		tasks = append(tasks, r.task())
	}
	domain.SortSnapshot(tasks)
	return tasks, nil
}

func (s *Store) logError(msg string) {
	if s.logger != nil {
		s.logger.Error("", "redisstore", msg)
	}
}
