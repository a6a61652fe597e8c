package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	backend := storage.NewMemoryStore()
	return New(context.Background(), backend, logger.New("error", false)), backend
}

func TestAddRemoveSequence(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	s.Add(ctx, 8)
	s.Add(ctx, 1)
	s.Add(ctx, 8) // duplicate, no-op
	s.Remove(ctx, 8)

	if got := s.IDs(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("expected [1], got %v", got)
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}

	// The persisted list mirrors memory after every mutation.
	data, err := backend.Get(ctx, storage.KeyBookmarks)
	if err != nil {
		t.Fatalf("bookmarks not persisted: %v", err)
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("persisted bookmarks not parseable: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{1}) {
		t.Errorf("expected persisted [1], got %v", ids)
	}
}

func TestRemoveAbsent(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	s.Remove(ctx, 42)
	if s.Count() != 0 {
		t.Errorf("expected empty set, got %d", s.Count())
	}

	// A no-op must not write anything.
	if _, err := backend.Get(ctx, storage.KeyBookmarks); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no persisted value after no-op, got %v", err)
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if added := s.Toggle(ctx, 3); !added {
		t.Error("expected toggle to add 3")
	}
	if !s.Contains(3) {
		t.Error("expected 3 to be bookmarked")
	}

	// Toggle is its own inverse.
	if added := s.Toggle(ctx, 3); added {
		t.Error("expected toggle to remove 3")
	}
	if s.Contains(3) || s.Count() != 0 {
		t.Error("expected empty set after double toggle")
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, id := range []int{5, 2, 9, 2, 7} {
		s.Add(ctx, id)
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []int{5, 2, 9, 7}) {
		t.Errorf("expected [5 2 9 7], got %v", got)
	}
}

func TestLoadDedupes(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()

	// A hand-edited or legacy list may carry duplicates.
	if err := backend.Set(ctx, storage.KeyBookmarks, []byte("[4,4,2,4,2]")); err != nil {
		t.Fatal(err)
	}

	s := New(ctx, backend, logger.New("error", false))
	if got := s.IDs(); !reflect.DeepEqual(got, []int{4, 2}) {
		t.Errorf("expected deduped [4 2], got %v", got)
	}
}

func TestCorruptListIsDiscarded(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()

	if err := backend.Set(ctx, storage.KeyBookmarks, []byte("oops")); err != nil {
		t.Fatal(err)
	}

	s := New(ctx, backend, logger.New("error", false))
	if s.Count() != 0 {
		t.Errorf("expected empty set after corrupt blob, got %d", s.Count())
	}
	if _, err := backend.Get(ctx, storage.KeyBookmarks); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected corrupt key to be deleted, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var calls int
	cancel := s.Subscribe(func() { calls++ })

	s.Add(ctx, 1)
	s.Toggle(ctx, 2)
	s.Remove(ctx, 1)
	if calls != 3 {
		t.Errorf("expected 3 notifications, got %d", calls)
	}

	// No-op mutations do not notify.
	s.Add(ctx, 2)
	s.Remove(ctx, 99)
	if calls != 3 {
		t.Errorf("expected no notification for no-ops, got %d", calls)
	}

	cancel()
	s.Add(ctx, 5)
	if calls != 3 {
		t.Errorf("expected no notification after cancel, got %d", calls)
	}
}

func TestSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	log := logger.New("error", false)

	s1 := New(ctx, backend, log)
	s1.Add(ctx, 3)
	s1.Add(ctx, 11)

	s2 := New(ctx, backend, log)
	if got := s2.IDs(); !reflect.DeepEqual(got, []int{3, 11}) {
		t.Errorf("expected [3 11] after restart, got %v", got)
	}
}
