package driving

import (
	"context"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// Indexer builds the in-memory index from the document corpus.
type Indexer interface {
	// Index populates the vector store. When the store is already
	// non-empty and force is false the call is an idempotent no-op.
	// Per-document failures are reported, never raised.
	Index(ctx context.Context, force bool) (domain.IndexReport, error)
}
