package driven

import (
	"context"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// VectorStore holds index entries and supports nearest-neighbour
// queries by cosine similarity. It contains entries from exactly one
// indexing pass at a time: Clear is called before a new pass writes.
type VectorStore interface {
	// Upsert inserts entries, overwriting any entry with the same
	// chunk ID. Idempotent by ID.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// Query returns the k entries most similar to the embedding,
	// ranked by similarity descending. Ties break by insertion order.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.Hit, error)

	// Clear empties the store.
	Clear(ctx context.Context) error

	// Count returns the current entry count.
	Count(ctx context.Context) (int, error)
}
