// Package pgstore provides a PostgreSQL implementation of domain.TaskStore.
// Changes are broadcast with NOTIFY so observers in other processes see them.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/pubsub"
)

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskStore        = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// DefaultChannel is the notification channel written to on every change.
const DefaultChannel = "taskman_tasks"

const taskColumns = "id, title, description, priority, status, due_date, created_at"

// Store persists tasks in a single PostgreSQL table.
type Store struct {
	pool    *pgxpool.Pool
	logger  domain.Logger
	table   string
	channel string
	owned   bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for listener errors.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithTable overrides the table name. Tests use it to isolate runs.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithChannel overrides the notification channel.
func WithChannel(name string) Option {
	return func(s *Store) {
		s.channel = name
	}
}

// New creates a Store on an existing pool. The caller owns the pool.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:    pool,
		table:   "tasks",
		channel: DefaultChannel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store with its own pool for dsn. Connections are made on
// first use. The pool is closed by Close.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	s := New(pool, opts...)
	s.owned = true
	return s, nil
}

// Close releases the pool if the store opened it.
func (s *Store) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}

// EnsureTable creates the tasks table if it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL,
			status      TEXT NOT NULL,
			due_date    BIGINT,
			created_at  BIGINT NOT NULL
		)`, pgx.Identifier{s.table}.Sanitize()))
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

// Initialize creates the table.
func (s *Store) Initialize(ctx context.Context) error {
	return s.EnsureTable(ctx)
}

// Observe listens on the notification channel and re-reads the table after
// every notification. One pooled connection is held until ctx is done.
func (s *Store) Observe(ctx context.Context) (<-chan []domain.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	listen := "LISTEN " + pgx.Identifier{s.channel}.Sanitize()
	if _, err := conn.Exec(ctx, listen); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen: %w", err)
	}

	snapshot, err := s.list(ctx)
	if err != nil {
		conn.Release()
		return nil, err
	}

	out := make(chan []domain.Task, 1)
	out <- snapshot

	go func() {
		defer close(out)
		defer func() {
			// The connection goes back to the pool; drop its subscriptions first.
			_, _ = conn.Exec(context.Background(), "UNLISTEN *")
			conn.Release()
		}()
		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				if ctx.Err() == nil {
					s.logError("wait for notification: " + err.Error())
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
	}()
	return out, nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", taskColumns, s.tableName()), id)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Insert stores a task, replacing any task with the same ID.
func (s *Store) Insert(ctx context.Context, task domain.Task) error {
	due, created := columnsOf(task)
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			due_date = EXCLUDED.due_date,
			created_at = EXCLUDED.created_at`, s.tableName(), taskColumns),
		task.ID, task.Title, task.Description, string(task.Priority), string(task.Status), due, created)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return s.notify(ctx, task.ID)
}

// Update replaces an existing task.
func (s *Store) Update(ctx context.Context, task domain.Task) error {
	due, created := columnsOf(task)
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET title = $2, description = $3, priority = $4, status = $5,
			due_date = $6, created_at = $7
		WHERE id = $1`, s.tableName()),
		task.ID, task.Title, task.Description, string(task.Priority), string(task.Status), due, created)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return s.notify(ctx, task.ID)
}

// Delete removes a task by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName()), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}
	return s.notify(ctx, id)
}

// DeleteAll removes every task.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM "+s.tableName()); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return s.notify(ctx, "")
}

func (s *Store) list(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY created_at DESC, id ASC", taskColumns, s.tableName()))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) notify(ctx context.Context, payload string) error {
	if _, err := s.pool.Exec(ctx, "SELECT pg_notify($1, $2)", s.channel, payload); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func (s *Store) tableName() string {
	return pgx.Identifier{s.table}.Sanitize()
}

func (s *Store) logError(msg string) {
	if s.logger != nil {
		s.logger.Error("", "pgstore", msg)
	}
}

func columnsOf(task domain.Task) (*int64, int64) {
	var due *int64
	if task.DueDate != nil {
		ms := domain.EpochMillis(*task.DueDate)
		due = &ms
	}
	return due, domain.EpochMillis(task.CreatedAt)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t         domain.Task
		priority  string
		status    string
		due       *int64
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &due, &createdAt); err != nil {
		return nil, err
	}
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	t.CreatedAt = domain.FromEpochMillis(createdAt)
	if due != nil {
		d := domain.FromEpochMillis(*due)
		t.DueDate = &d
	}
	return &t, nil
}
