package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

func entry(id string, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{ChunkID: id, Content: "text " + id, Embedding: vec}
}

func TestStore_UpsertAndCount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{
		entry("a_0", 1, 0),
		entry("a_1", 0, 1),
	}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_UpsertIdempotentByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{entry("a_0", 1, 0)}))
	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{entry("a_0", 0, 1)}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The later upsert wins.
	hits, err := s.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a_0", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestStore_UpsertRejectsEmptyID(t *testing.T) {
	s := NewStore()
	err := s.Upsert(context.Background(), []domain.IndexEntry{entry("", 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_QueryRankedBySimilarity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{
		entry("far", -1, 0),
		entry("near", 1, 0),
		entry("mid", 1, 1),
	}))

	hits, err := s.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "near", hits[0].ChunkID)
	assert.Equal(t, "mid", hits[1].ChunkID)
	assert.Equal(t, "far", hits[2].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	assert.Greater(t, hits[1].Similarity, hits[2].Similarity)
}

func TestStore_QueryExactlyKNoDuplicates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	entries := []domain.IndexEntry{
		entry("e_0", 1, 0),
		entry("e_1", 0.9, 0.1),
		entry("e_2", 0.8, 0.2),
		entry("e_3", 0.7, 0.3),
		entry("e_4", 0.6, 0.4),
	}
	require.NoError(t, s.Upsert(ctx, entries))

	hits, err := s.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	seen := make(map[string]bool)
	for _, h := range hits {
		assert.False(t, seen[h.ChunkID], "duplicate id %s", h.ChunkID)
		seen[h.ChunkID] = true
	}
}

func TestStore_QueryTiesBreakByInsertionOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// Identical vectors: all cosine scores tie.
	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{
		entry("first", 1, 1),
		entry("second", 1, 1),
		entry("third", 1, 1),
	}))

	hits, err := s.Query(ctx, []float32{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].ChunkID)
	assert.Equal(t, "second", hits[1].ChunkID)
	assert.Equal(t, "third", hits[2].ChunkID)
}

func TestStore_QueryKLargerThanStore(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{entry("only", 1, 0)}))

	hits, err := s.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestStore_QueryEmptyEmbedding(t *testing.T) {
	s := NewStore()
	_, err := s.Query(context.Background(), nil, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{entry("a_0", 1, 0)}))
	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// A cleared store accepts a fresh generation under the same IDs.
	require.NoError(t, s.Upsert(ctx, []domain.IndexEntry{entry("a_0", 0, 1)}))
	n, _ = s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestCosine_ZeroVector(t *testing.T) {
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 1}))
}
