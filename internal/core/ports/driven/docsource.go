package driven

import (
	"context"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// DocumentSource enumerates and reads the document corpus.
// Unsupported file types never appear in List.
type DocumentSource interface {
	// List returns the IDs of readable documents, in a stable order.
	List(ctx context.Context) ([]string, error)

	// Read loads one document, flattening tabular sources to text.
	Read(ctx context.Context, id string) (domain.Document, error)
}

// WatchableSource is a DocumentSource that can report corpus changes.
type WatchableSource interface {
	DocumentSource

	// Watch emits the ID of each changed document until ctx is done.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan string, error)
}
