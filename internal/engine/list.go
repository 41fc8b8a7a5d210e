// Package engine contains the state engines behind every presentation surface:
// the task list, the task detail screen and the task creation form.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/pubsub"
)

// ListState is a snapshot of the list engine.
// Fields are ordered to minimize memory padding.
type ListState struct {
	Err      error         // Last store failure, cleared by the next snapshot
	Tasks    []domain.Task // Full collection as published by the store
	Filtered []domain.Task // Tasks after search, filters and sort
	Query    domain.Query  // Current search, filters and sort
	Loading  bool          // True until the first snapshot arrives
}

// ListOption configures a ListEngine.
type ListOption func(*ListEngine)

// WithQuery sets the initial query.
func WithQuery(q domain.Query) ListOption {
	return func(e *ListEngine) {
		e.state.Query = q
	}
}

// ListEngine owns the task collection streamed from the store and the
// derived, filtered and sorted view of it.
type ListEngine struct {
	store     domain.TaskStore
	logger    domain.Logger
	broker    *pubsub.Broker[ListState]
	cancel    context.CancelFunc
	state     ListState
	observers int
	gen       int
	mu        sync.Mutex
}

// NewListEngine creates a ListEngine. store may be nil, in which case the
// view is always empty.
func NewListEngine(store domain.TaskStore, logger domain.Logger, opts ...ListOption) *ListEngine {
	e := &ListEngine{
		store:  store,
		logger: logger,
		broker: pubsub.New[ListState](),
		state: ListState{
			Query:   domain.DefaultQuery(),
			Loading: store != nil,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.broker.Publish(e.state)
	return e
}

// ObserveTasks returns a stream of list states. The current state is
// delivered first. The channel is closed when ctx is done; the store
// subscription is released once no observer is left.
// If the store stream failed or ended, the next call subscribes again.
func (e *ListEngine) ObserveTasks(ctx context.Context) <-chan ListState {
	e.mu.Lock()
	e.observers++
	if e.cancel == nil {
		e.startLocked()
	}
	e.mu.Unlock()

	ch := e.broker.Subscribe(ctx)
	go func() {
		<-ctx.Done()
		e.release()
	}()
	return ch
}

// startLocked begins a store subscription in the background.
// Caller must hold e.mu.
func (e *ListEngine) startLocked() {
	if e.store == nil {
		e.state.Loading = false
		e.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.gen++
	if !e.state.Loading {
		e.state.Loading = true
		e.publishLocked()
	}
	go e.subscribe(ctx, e.gen)
}

// subscribe runs store.Observe outside e.mu; remote stores dial here.
func (e *ListEngine) subscribe(ctx context.Context, gen int) {
	snapshots, err := e.store.Observe(ctx)
	if err != nil {
		e.streamFailed(gen, fmt.Errorf("observe tasks: %w", err))
		return
	}

	for tasks := range snapshots {
		e.mu.Lock()
		if gen != e.gen {
			e.mu.Unlock()
			continue
		}
		e.state.Tasks = tasks
		e.state.Loading = false
		e.state.Err = nil
		e.recomputeLocked()
		e.mu.Unlock()
	}
	e.streamFailed(gen, fmt.Errorf("observe tasks: %w", domain.ErrStreamClosed))
}

// streamFailed surfaces the end of subscription gen and drops it so the
// next observer subscribes again. Ended subscriptions that were already
// replaced or released are ignored.
func (e *ListEngine) streamFailed(gen int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.cancel()
	e.cancel = nil
	e.gen++
	e.state.Tasks = nil
	e.state.Filtered = nil
	e.state.Loading = false
	e.state.Err = err
	if e.logger != nil {
		e.logger.Error("", "list", err.Error())
	}
	e.publishLocked()
}

// Refresh subscribes to the store again when observers are attached but
// the previous subscription failed or ended.
func (e *ListEngine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.observers > 0 && e.cancel == nil {
		e.startLocked()
	}
}

func (e *ListEngine) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers--
	if e.observers > 0 || e.cancel == nil {
		return
	}
	e.cancel()
	e.cancel = nil
	e.gen++
	// The collection is no longer live; the next observer waits for a fresh snapshot.
	e.state.Loading = true
	e.publishLocked()
}

// State returns the current list state.
func (e *ListEngine) State() ListState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot observes the store until the first loaded state and returns it.
func (e *ListEngine) Snapshot(ctx context.Context) (ListState, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for st := range e.ObserveTasks(ctx) {
		if !st.Loading {
			return st, st.Err
		}
	}
	return e.State(), ctx.Err()
}

// SetSearchQuery sets the search text.
func (e *ListEngine) SetSearchQuery(text string) {
	e.updateQuery(func(q *domain.Query) { q.Search = text })
}

// SetStatusFilter sets the status filter. nil clears it.
func (e *ListEngine) SetStatusFilter(status *domain.Status) {
	e.updateQuery(func(q *domain.Query) { q.Status = status })
}

// SetPriorityFilter sets the priority filter. nil clears it.
func (e *ListEngine) SetPriorityFilter(priority *domain.Priority) {
	e.updateQuery(func(q *domain.Query) { q.Priority = priority })
}

// SetSortBy sets the sort mode.
func (e *ListEngine) SetSortBy(sortBy domain.SortBy) {
	e.updateQuery(func(q *domain.Query) { q.SortBy = sortBy })
}

// ClearFilters resets search, filters and sort.
func (e *ListEngine) ClearFilters() {
	e.updateQuery(func(q *domain.Query) { *q = q.Cleared() })
}

func (e *ListEngine) updateQuery(fn func(*domain.Query)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.state.Query)
	e.recomputeLocked()
}

func (e *ListEngine) recomputeLocked() {
	e.state.Filtered = domain.FilterAndSort(e.state.Tasks, e.state.Query)
	e.publishLocked()
}

func (e *ListEngine) publishLocked() {
	e.broker.Publish(e.state)
}

// DeleteTask removes a task. The view refreshes through the store stream.
func (e *ListEngine) DeleteTask(ctx context.Context, id string) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return e.fail(id, fmt.Errorf("delete task: %w", err))
	}
	if e.logger != nil {
		e.logger.Info(id, "task", "deleted")
	}
	return nil
}

// ToggleCompletion marks a task done, or back to todo if it is done.
func (e *ListEngine) ToggleCompletion(ctx context.Context, id string) (*domain.Task, error) {
	return e.toggle(ctx, id, domain.ToggleCompletion)
}

// ToggleInProgress marks a task in progress, or back to todo if it is in progress.
func (e *ListEngine) ToggleInProgress(ctx context.Context, id string) (*domain.Task, error) {
	return e.toggle(ctx, id, domain.ToggleInProgress)
}

func (e *ListEngine) toggle(ctx context.Context, id string, next func(domain.Status) domain.Status) (*domain.Task, error) {
	if e.store == nil {
		return nil, domain.ErrTaskNotFound
	}

	task, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, e.fail(id, fmt.Errorf("get task: %w", err))
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	oldStatus := task.Status
	updated := task.WithStatus(next(task.Status))
	if err := e.store.Update(ctx, updated); err != nil {
		return nil, e.fail(id, fmt.Errorf("update task: %w", err))
	}

	if e.logger != nil {
		e.logger.Info(id, "task", fmt.Sprintf("status changed: %s -> %s", oldStatus, updated.Status))
	}
	return &updated, nil
}

// fail records err on the state so observers can surface it.
func (e *ListEngine) fail(id string, err error) error {
	if e.logger != nil {
		e.logger.Error(id, "list", err.Error())
	}
	e.mu.Lock()
	e.state.Err = err
	e.publishLocked()
	e.mu.Unlock()
	return err
}
