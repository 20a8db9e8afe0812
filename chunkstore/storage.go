package chunkstore

import (
	"container/list"
	"sort"
	"sync"

	"github.com/0x4d44/mdcore/core"
)

// Generator creates a fresh Chunk at pos when ensure_chunk has to create one,
// matching terrain.Generator's shape without chunkstore needing to depend on
// the terrain package.
type Generator interface {
	GenerateChunk(pos core.ChunkPos) *Chunk
}

// Storage is the LRU-backed ChunkPos -> *Chunk residency map.
// Capacity must be >= 1.
type Storage struct {
	mu       sync.Mutex
	capacity int
	gen      Generator

	entries map[core.ChunkPos]*list.Element
	order   *list.List // front = most recently used

	hits, misses, evictions uint64
}

type lruEntry struct {
	pos   core.ChunkPos
	chunk *Chunk
}

// NewStorage creates a Storage with the given capacity (clamped to at least
// 1) backed by gen for on-demand generation.
func NewStorage(capacity int, gen Generator) *Storage {
	if capacity < 1 {
		capacity = 1
	}
	return &Storage{
		capacity: capacity,
		gen:      gen,
		entries:  make(map[core.ChunkPos]*list.Element),
		order:    list.New(),
	}
}

// EnsureChunk returns the chunk at pos, creating it via the generator if
// absent, and evicting least-recently-used entries until len < capacity
// before inserting. It always touches LRU order.
func (s *Storage) EnsureChunk(pos core.ChunkPos) *Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[pos]; ok {
		s.order.MoveToFront(el)
		s.hits++
		return el.Value.(*lruEntry).chunk
	}
	s.misses++
	for len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	c := s.gen.GenerateChunk(pos)
	el := s.order.PushFront(&lruEntry{pos: pos, chunk: c})
	s.entries[pos] = el
	return c
}

func (s *Storage) evictOldestLocked() {
	back := s.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*lruEntry)
	delete(s.entries, entry.pos)
	s.order.Remove(back)
	s.evictions++
}

// Get returns the chunk at pos without touching LRU order, and whether it
// was present.
func (s *Storage) Get(pos core.ChunkPos) (*Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[pos]
	if !ok {
		return nil, false
	}
	return el.Value.(*lruEntry).chunk, true
}

// GetMut returns the chunk at pos, touching LRU order as an access, and
// whether it was present.
func (s *Storage) GetMut(pos core.ChunkPos) (*Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[pos]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*lruEntry).chunk, true
}

// Evict removes pos from storage unconditionally (used on chunk unload),
// returning the evicted chunk if present.
func (s *Storage) Evict(pos core.ChunkPos) (*Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[pos]
	if !ok {
		return nil, false
	}
	delete(s.entries, pos)
	s.order.Remove(el)
	return el.Value.(*lruEntry).chunk, true
}

// IterPositions returns a deterministically ordered (by ChunkPos.Less)
// snapshot of all resident positions. Never iterate s.entries directly
// outside Storage: map order is nondeterministic and this method is the
// only sanctioned way to enumerate resident chunks.
func (s *Storage) IterPositions() []core.ChunkPos {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ChunkPos, 0, len(s.entries))
	for pos := range s.entries {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len returns the number of resident chunks.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats is a snapshot of residency and hit/miss/eviction counters. The
// headless driver's automation get_state response does not include it.
type Stats struct {
	Resident       int
	Capacity       int
	Hits, Misses   uint64
	Evictions      uint64
}

// Stats returns a snapshot of storage counters.
func (s *Storage) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Resident:  len(s.entries),
		Capacity:  s.capacity,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
}
