package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/domain"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func next(t *testing.T, ch <-chan []domain.Task) []domain.Task {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok)
		return v
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
		return nil
	}
}

func TestStore_ObserveFirstSnapshot(t *testing.T) {
	s := New(
		domain.Task{ID: "b", Title: "older", CreatedAt: t0},
		domain.Task{ID: "a", Title: "newer", CreatedAt: t0.Add(time.Minute)},
		domain.Task{ID: "c", Title: "tie", CreatedAt: t0},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Observe(ctx)
	require.NoError(t, err)
	snap := next(t, ch)
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{snap[0].ID, snap[1].ID, snap[2].ID})
}

func TestStore_WritesRepublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New()
	ch, err := s.Observe(ctx)
	require.NoError(t, err)
	assert.Empty(t, next(t, ch))

	task := domain.Task{ID: "1", Title: "Fix login bug", CreatedAt: t0}
	require.NoError(t, s.Insert(ctx, task))
	assert.Len(t, next(t, ch), 1)

	task.Status = domain.StatusDone
	require.NoError(t, s.Update(ctx, task))
	snap := next(t, ch)
	assert.Equal(t, domain.StatusDone, snap[0].Status)

	require.NoError(t, s.Delete(ctx, "1"))
	assert.Empty(t, next(t, ch))
}

func TestStore_GetMissing(t *testing.T) {
	s := New()
	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpdateMissing(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), domain.Task{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	s := New(domain.Task{ID: "1", CreatedAt: t0})
	require.NoError(t, s.Delete(context.Background(), "1"))
	require.NoError(t, s.Delete(context.Background(), "1"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_DeleteAll(t *testing.T) {
	s := New(domain.Task{ID: "1", CreatedAt: t0}, domain.Task{ID: "2", CreatedAt: t0})
	require.NoError(t, s.DeleteAll(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestStore_InsertReplaces(t *testing.T) {
	s := New(domain.Task{ID: "1", Title: "a", CreatedAt: t0})
	require.NoError(t, s.Insert(context.Background(), domain.Task{ID: "1", Title: "b", CreatedAt: t0}))
	got, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
	assert.Equal(t, 1, s.Len())
}
