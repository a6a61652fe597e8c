package index

import (
	"sort"
	"sync"
	"time"

	"github.com/degyhq/degy/internal/domain"
)

// MemoryIndex provides in-memory storage and lookup for the destination
// catalog and its traveller comments. It is the authoritative read path;
// the Redis mirror only exists to warm it across restarts.
type MemoryIndex struct {
	mu           sync.RWMutex
	destinations map[int]*domain.Destination // ID -> Destination
	comments     []*domain.Comment
	lastReload   time.Time // Timestamp of last catalog reload
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		destinations: make(map[int]*domain.Destination),
	}
}

// UpdateDestinations replaces all destinations in the index
func (idx *MemoryIndex) UpdateDestinations(dests []*domain.Destination) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.destinations = make(map[int]*domain.Destination, len(dests))
	for _, dest := range dests {
		idx.destinations[dest.ID] = dest
	}
	idx.lastReload = time.Now()
}

// UpdateComments replaces all comments in the index
func (idx *MemoryIndex) UpdateComments(comments []*domain.Comment) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.comments = comments
}

// GetDestination retrieves a destination by ID
func (idx *MemoryIndex) GetDestination(id int) (*domain.Destination, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	dest, ok := idx.destinations[id]
	return dest, ok
}

// GetAllDestinations returns all destinations in catalog (ID) order
func (idx *MemoryIndex) GetAllDestinations() []*domain.Destination {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	dests := make([]*domain.Destination, 0, len(idx.destinations))
	for _, dest := range idx.destinations {
		dests = append(dests, dest)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i].ID < dests[j].ID })
	return dests
}

// Search returns destinations matching the raw query input, ranked.
// An empty query returns the whole catalog.
func (idx *MemoryIndex) Search(input string) []*domain.Destination {
	return domain.Search(input, idx.GetAllDestinations())
}

// GetAllComments returns all traveller comments
func (idx *MemoryIndex) GetAllComments() []*domain.Comment {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	comments := make([]*domain.Comment, len(idx.comments))
	copy(comments, idx.comments)
	return comments
}

// Count returns the number of destinations in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.destinations)
}

// GetLastReload returns the timestamp of the last catalog reload
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
