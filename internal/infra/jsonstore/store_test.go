package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/taskman/internal/domain"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "tasks.json"), opts...)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func recv(t *testing.T, ch <-chan []domain.Task) []domain.Task {
	t.Helper()
	select {
	case tasks, ok := <-ch:
		if !ok {
			t.Fatal("observe channel closed")
		}
		return tasks
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}
	return nil
}

func TestStore_Initialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tasks.json")

	store := New(path)
	if store.IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	// Initialize should create the file
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}

	// Initialize again should be idempotent
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
}

func TestStore_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "tasks.json"))

	if _, err := store.Get(context.Background(), "1"); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Get() error = %v, want ErrNotInitialized", err)
	}
	if _, err := store.Observe(context.Background()); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Observe() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	due := now.Add(24 * time.Hour)
	task := domain.Task{
		ID:          "0190a1b2-0000-7000-8000-000000000001",
		Title:       "Complete project documentation",
		Description: "Write comprehensive documentation",
		Priority:    domain.PriorityHigh,
		Status:      domain.StatusInProgress,
		DueDate:     &due,
		CreatedAt:   now,
	}

	if err := store.Insert(ctx, task); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Title != task.Title || got.Description != task.Description {
		t.Errorf("Get() = %+v, want %+v", got, task)
	}
	if got.Priority != task.Priority || got.Status != task.Status {
		t.Errorf("Priority/Status = %s/%s, want %s/%s", got.Priority, got.Status, task.Priority, task.Status)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, task.CreatedAt)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for non-existent task", got)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), domain.Task{ID: "missing", Title: "x"})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
	}
}

func TestStore_DeleteAndDeleteAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Insert(ctx, domain.Task{ID: id, Title: id, CreatedAt: now}); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() of missing task error = %v", err)
	}
	if got, _ := store.Get(ctx, "a"); got != nil {
		t.Error("task still present after Delete")
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if got, _ := store.Get(ctx, "b"); got != nil {
		t.Error("task still present after DeleteAll")
	}
}

func TestStore_Observe(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Insert(ctx, domain.Task{ID: "old", Title: "old", CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	ch, err := store.Observe(ctx)
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if got := recv(t, ch); len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("first snapshot = %+v", got)
	}

	if err := store.Insert(ctx, domain.Task{ID: "new", Title: "new", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	got := recv(t, ch)
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("snapshot after insert = %+v, want newest first", got)
	}

	if err := store.Delete(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	got = recv(t, ch)
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("snapshot after delete = %+v", got)
	}
}

func TestStore_ObservePicksUpExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	watcher := New(path, WithPollInterval(10*time.Millisecond))
	if err := watcher.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = watcher.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := watcher.Observe(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := recv(t, ch); len(got) != 0 {
		t.Fatalf("first snapshot = %+v, want empty", got)
	}

	// Another process writes through its own Store value
	other := New(path)
	// Ensure the modification time moves on filesystems with coarse timestamps
	time.Sleep(20 * time.Millisecond)
	if err := other.Insert(ctx, domain.Task{ID: "x", Title: "from elsewhere", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-ch:
			if len(got) == 1 && got[0].Title == "from elsewhere" {
				return
			}
		case <-deadline:
			t.Fatal("external write not observed")
		}
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New(path).Get(context.Background(), "x")
	if err == nil {
		t.Fatal("Get() on corrupt file should fail")
	}
}
