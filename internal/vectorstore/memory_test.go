package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

func TestMemoryStoreQuery_RanksBySimilarity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &model.VectorEntry{AssetID: "near", Embedding: []float32{1, 0, 0}}))
	require.NoError(t, store.Add(ctx, &model.VectorEntry{AssetID: "far", Embedding: []float32{0, 1, 0}}))

	matches, err := store.Query(ctx, []float32{1, 0.1, 0}, Filter{}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "near", matches[0].Entry.AssetID)
	require.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryStoreQuery_FilterScopesByAssetID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &model.VectorEntry{AssetID: "a", DocumentName: "same.txt", Embedding: []float32{1, 0, 0}}))
	require.NoError(t, store.Add(ctx, &model.VectorEntry{AssetID: "b", DocumentName: "same.txt", Embedding: []float32{1, 0, 0}}))

	matches, err := store.Query(ctx, []float32{1, 0, 0}, Filter{AssetID: "b"}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "b", matches[0].Entry.AssetID)
}

func TestMemoryStoreQuery_TopKLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"x", "y", "z"} {
		require.NoError(t, store.Add(ctx, &model.VectorEntry{AssetID: id, Embedding: []float32{1, 0, 0}}))
	}

	matches, err := store.Query(ctx, []float32{1, 0, 0}, Filter{}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestMemoryStoreUpdate_MissingEntry(t *testing.T) {
	store := NewMemoryStore()
	err := store.Update(context.Background(), &model.VectorEntry{AssetID: "missing", Embedding: []float32{1}})
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestMemoryStoreDelete_MissingEntry(t *testing.T) {
	store := NewMemoryStore()
	err := store.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	require.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	require.Equal(t, float32(0), cosineSimilarity([]float32{1, 0}, []float32{1}))
	require.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
