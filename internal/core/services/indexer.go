package services

import (
	"context"
	"fmt"

	"github.com/complia-labs/complia-cli/internal/chunker"
	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/core/ports/driving"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// Indexer builds the vector store from the document corpus: chunk,
// batch-encode, upsert. One batch-encode call per document keeps the
// embedding cost per document bounded and isolates failures.
type Indexer struct {
	source      driven.DocumentSource
	embedder    driven.EmbeddingService
	store       driven.VectorStore
	maxChunkLen int
}

// IndexerOption configures the indexer.
type IndexerOption func(*Indexer)

// WithMaxChunkLen sets the maximum chunk length in characters.
func WithMaxChunkLen(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.maxChunkLen = n
		}
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	opts ...IndexerOption,
) *Indexer {
	ix := &Indexer{
		source:      source,
		embedder:    embedder,
		store:       store,
		maxChunkLen: chunker.DefaultMaxLen,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index populates the vector store from the corpus.
//
// When the store already holds entries and force is false, the call is
// an idempotent no-op: embedding the corpus again would cost real money
// for an identical result. With force, or on an empty store, the store
// is cleared and rebuilt so it holds entries from exactly one pass.
//
// A per-document failure is recorded in the report and logged; it never
// aborts indexing of the remaining documents.
func (ix *Indexer) Index(ctx context.Context, force bool) (domain.IndexReport, error) {
	logger.Section("Indexing")

	if ix.source == nil || ix.embedder == nil || ix.store == nil {
		return domain.IndexReport{}, domain.ErrStoreUnavailable
	}

	count, err := ix.store.Count(ctx)
	if err != nil {
		return domain.IndexReport{}, fmt.Errorf("count store: %w", err)
	}
	if count > 0 && !force {
		logger.Debug("Store already holds %d entries, skipping", count)
		return domain.IndexReport{Skipped: true, Chunks: count}, nil
	}

	if err := ix.store.Clear(ctx); err != nil {
		return domain.IndexReport{}, fmt.Errorf("clear store: %w", err)
	}

	ids, err := ix.source.List(ctx)
	if err != nil {
		return domain.IndexReport{}, fmt.Errorf("list corpus: %w", err)
	}
	logger.Debug("Corpus: %d documents", len(ids))

	var report domain.IndexReport
	for _, id := range ids {
		chunks, err := ix.indexDocument(ctx, id)
		if err != nil {
			docErr := &domain.DocumentError{DocumentID: id, Err: err}
			report.Failures = append(report.Failures, docErr)
			logger.Error("%v", docErr)
			continue
		}
		report.Documents++
		report.Chunks += chunks
		logger.Debug("Indexed %s: %d chunks", id, chunks)
	}

	logger.Info("Indexing complete: %d documents, %d chunks, %d failures",
		report.Documents, report.Chunks, len(report.Failures))
	return report, nil
}

// indexDocument chunks, encodes and upserts a single document,
// returning the number of entries written.
func (ix *Indexer) indexDocument(ctx context.Context, id string) (int, error) {
	doc, err := ix.source.Read(ctx, id)
	if err != nil {
		return 0, err
	}

	chunks := chunker.Split(doc.Content, ix.maxChunkLen)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("encode: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, content := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:   domain.ChunkID(doc.ID, i),
			Content:   content,
			Embedding: vectors[i],
		}
	}

	if err := ix.store.Upsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	return len(entries), nil
}
