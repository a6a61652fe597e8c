package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

// Store maintains the visitor's saved-destination set: set semantics over
// a persisted ordered list of destination IDs (degy_bookmarks).
//
// The persisted list never contains duplicates. Every mutation re-derives
// the full next-state list and overwrites the stored value in one write;
// there is no incremental patching. Insertion order is preserved but
// carries no meaning for readers.
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
	logger  logger.Logger

	ids []int

	listeners    map[int]func()
	nextListener int
}

// New creates a bookmark store and loads the persisted list. A stored
// value that fails to parse is discarded and the key cleared.
func New(ctx context.Context, st storage.Store, log logger.Logger) *Store {
	s := &Store{
		storage:   st,
		logger:    log,
		listeners: make(map[int]func()),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	data, err := s.storage.Get(ctx, storage.KeyBookmarks)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to load bookmarks", logger.Error(err))
		}
		return
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.Warn("discarding corrupt bookmark list",
			logger.String("key", storage.KeyBookmarks),
			logger.Error(err))
		_ = s.storage.Delete(ctx, storage.KeyBookmarks)
		return
	}
	s.ids = dedupe(ids)
}

// dedupe drops repeated IDs, keeping first-insertion order.
func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Add appends id to the set. Adding a present id is a no-op.
func (s *Store) Add(ctx context.Context, id int) {
	s.mu.Lock()

	if containsID(s.ids, id) {
		s.mu.Unlock()
		return
	}

	next := make([]int, 0, len(s.ids)+1)
	next = append(next, s.ids...)
	next = append(next, id)
	s.commit(ctx, next)

	s.notifyLocked()
}

// Remove deletes id from the set. Removing an absent id is a no-op.
// All occurrences are removed, although at most one can be present.
func (s *Store) Remove(ctx context.Context, id int) {
	s.mu.Lock()

	if !containsID(s.ids, id) {
		s.mu.Unlock()
		return
	}

	next := make([]int, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	s.commit(ctx, next)

	s.notifyLocked()
}

// Toggle removes id when present, adds it otherwise.
// It returns true when id ends up bookmarked.
func (s *Store) Toggle(ctx context.Context, id int) bool {
	s.mu.Lock()

	var next []int
	added := !containsID(s.ids, id)
	if added {
		next = make([]int, 0, len(s.ids)+1)
		next = append(next, s.ids...)
		next = append(next, id)
	} else {
		next = make([]int, 0, len(s.ids))
		for _, existing := range s.ids {
			if existing != id {
				next = append(next, existing)
			}
		}
	}
	s.commit(ctx, next)

	s.notifyLocked()
	return added
}

// Contains reports membership without side effects.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return containsID(s.ids, id)
}

// Count returns the set size.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ids)
}

// IDs returns the bookmarked destination IDs in insertion order.
func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Subscribe registers fn to be called synchronously after every mutation.
// The returned cancel function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// commit installs the next-state list and overwrites the persisted value.
// A failed write is logged and memory stays authoritative; bookmark
// operations carry no error channel.
func (s *Store) commit(ctx context.Context, next []int) {
	s.ids = next
	if err := s.persist(ctx); err != nil {
		s.logger.Warn("failed to persist bookmarks", logger.Error(err))
	}
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.ids)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyBookmarks, data); err != nil {
		return fmt.Errorf("failed to persist bookmarks: %w", err)
	}
	return nil
}

// notifyLocked releases the store lock and invokes the listeners, so a
// listener may call back into the store.
func (s *Store) notifyLocked() {
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func containsID(ids []int, id int) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
