// Package cached decorates an embedding service with a bounded
// least-recently-used cache keyed by exact text, so repeated questions
// in a session are not re-encoded.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// DefaultCapacity is the default cache size.
const DefaultCapacity = 100

// Service wraps an EmbeddingService with a lookup-or-compute cache on
// Embed. Entries are evicted only by capacity pressure, never by time.
// Batch encoding bypasses the cache: it serves the indexing path, whose
// texts are not questions and would only churn evictions.
type Service struct {
	inner driven.EmbeddingService
	cache *lru.Cache[string, []float32]
}

// New creates a cached embedding service. capacity <= 0 uses
// DefaultCapacity.
func New(inner driven.EmbeddingService, capacity int) (*Service, error) {
	if inner == nil {
		return nil, fmt.Errorf("cached: inner embedding service is required")
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	cache, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &Service{inner: inner, cache: cache}, nil
}

// Embed returns the cached embedding when present, otherwise computes
// via the inner service and stores the result.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.cache.Get(text); ok {
		return vec, nil
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.cache.Add(text, vec)
	return vec, nil
}

// EmbedBatch delegates to the inner service uncached.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the inner service's embedding vector size.
func (s *Service) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service's model name.
func (s *Service) ModelName() string {
	return s.inner.ModelName()
}

// Len returns the current number of cached embeddings.
func (s *Service) Len() int {
	return s.cache.Len()
}

// Close releases the inner service's resources.
func (s *Service) Close() error {
	return s.inner.Close()
}
