// Package memory provides a process-local vector store with brute-force
// cosine similarity search. The index is rebuilt whenever empty; nothing
// is persisted across restarts.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store holds index entries in insertion order. All access is serialised:
// the store is shared, long-lived state mutated by every re-index.
type Store struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	byID    map[string]int // chunk ID -> index into entries
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Upsert inserts entries. An entry with an existing chunk ID overwrites
// in place, keeping its original insertion position.
func (s *Store) Upsert(_ context.Context, entries []domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.ChunkID == "" {
			return fmt.Errorf("%w: entry with empty chunk ID", domain.ErrInvalidInput)
		}
		if i, ok := s.byID[e.ChunkID]; ok {
			s.entries[i] = e
			continue
		}
		s.byID[e.ChunkID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return nil
}

// Query returns the k entries most similar to the embedding, ranked by
// cosine similarity descending. Ties break by insertion order, which
// makes results deterministic for repeated indexing of the same input.
func (s *Store) Query(_ context.Context, embedding []float32, k int) ([]domain.Hit, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || k > len(s.entries) {
		k = len(s.entries)
	}

	type scored struct {
		pos int
		sim float64
	}
	ranked := make([]scored, len(s.entries))
	for i, e := range s.entries {
		ranked[i] = scored{pos: i, sim: cosine(embedding, e.Embedding)}
	}

	// Stable sort keeps insertion order for equal similarities.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sim > ranked[j].sim
	})

	hits := make([]domain.Hit, 0, k)
	for _, r := range ranked[:k] {
		e := s.entries[r.pos]
		hits = append(hits, domain.Hit{
			ChunkID:    e.ChunkID,
			Content:    e.Content,
			Similarity: r.sim,
		})
	}
	return hits, nil
}

// Clear empties the store.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.byID = make(map[string]int)
	return nil
}

// Count returns the current entry count.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// cosine computes cosine similarity between two vectors. Mismatched
// lengths compare over the shorter prefix; zero vectors score zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
