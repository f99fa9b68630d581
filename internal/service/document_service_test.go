package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/vectorstore"
)

type fakeMetaStore struct {
	docs      map[string]*model.Document
	insertErr error
	updateErr error
	deleteErr error
}

func newFakeMetaStore() *fakeMetaStore {
	return &fakeMetaStore{docs: make(map[string]*model.Document)}
}

func (f *fakeMetaStore) Insert(ctx context.Context, doc *model.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	clone := *doc
	f.docs[doc.AssetID] = &clone
	return nil
}

func (f *fakeMetaStore) GetByID(ctx context.Context, assetID string) (*model.Document, error) {
	doc, ok := f.docs[assetID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeMetaStore) Update(ctx context.Context, doc *model.Document) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	existing, ok := f.docs[doc.AssetID]
	if !ok {
		return appErr.ErrNotFound
	}
	existing.DocumentName = doc.DocumentName
	existing.FileType = doc.FileType
	existing.Mtime = doc.Mtime
	return nil
}

func (f *fakeMetaStore) Delete(ctx context.Context, assetID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.docs[assetID]; !ok {
		return appErr.ErrNotFound
	}
	delete(f.docs, assetID)
	return nil
}

type fakeEmbedder struct {
	embedding []float32
	err       error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embedding, nil
}

// brokenVectorStore fails every operation, standing in for an unreachable
// vector backend.
type brokenVectorStore struct {
	err error
}

func (b *brokenVectorStore) Add(ctx context.Context, entry *model.VectorEntry) error { return b.err }
func (b *brokenVectorStore) Update(ctx context.Context, entry *model.VectorEntry) error {
	return b.err
}
func (b *brokenVectorStore) Delete(ctx context.Context, assetID string) error { return b.err }
func (b *brokenVectorStore) Query(ctx context.Context, probe []float32, filter vectorstore.Filter, topK int) ([]model.VectorMatch, error) {
	return nil, b.err
}
func (b *brokenVectorStore) Close() error { return nil }

func newTestDocumentService(meta MetadataStore, vectors vectorstore.Store) *DocumentService {
	return NewDocumentService(meta, vectors, &fakeEmbedder{embedding: []float32{1, 0, 0}}, 0)
}

func TestDocumentServiceCreate_WritesBothStores(t *testing.T) {
	meta := newFakeMetaStore()
	vectors := vectorstore.NewMemoryStore()
	svc := newTestDocumentService(meta, vectors)

	assetID, err := svc.Create(context.Background(), "report.pdf", "pdf", []float32{1, 0, 0})
	require.NoError(t, err)
	require.NotEmpty(t, assetID)

	doc, ok := meta.docs[assetID]
	require.True(t, ok)
	require.Equal(t, "report.pdf", doc.DocumentName)
	require.Equal(t, "pdf", doc.FileType)
	require.Equal(t, doc.Ctime, doc.Mtime)

	matches, err := vectors.Query(context.Background(), []float32{1, 0, 0}, vectorstore.Filter{AssetID: assetID}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, assetID, matches[0].Entry.AssetID)
}

func TestDocumentServiceCreate_AssignsUniqueIDs(t *testing.T) {
	meta := newFakeMetaStore()
	svc := newTestDocumentService(meta, vectorstore.NewMemoryStore())

	first, err := svc.Create(context.Background(), "a.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), first))
	second, err := svc.Create(context.Background(), "a.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDocumentServiceCreate_VectorFailureContained(t *testing.T) {
	meta := newFakeMetaStore()
	svc := newTestDocumentService(meta, &brokenVectorStore{err: errors.New("backend down")})

	assetID, err := svc.Create(context.Background(), "notes.md", "md", []float32{1, 0, 0})
	require.NoError(t, err)
	_, ok := meta.docs[assetID]
	require.True(t, ok)
}

func TestDocumentServiceCreate_MetadataFailurePropagates(t *testing.T) {
	meta := newFakeMetaStore()
	meta.insertErr = errors.New("db down")
	svc := newTestDocumentService(meta, vectorstore.NewMemoryStore())

	_, err := svc.Create(context.Background(), "notes.md", "md", []float32{1, 0, 0})
	require.Error(t, err)
}

func TestDocumentServiceUpdate_MissingBothSidesIsNoop(t *testing.T) {
	meta := newFakeMetaStore()
	svc := newTestDocumentService(meta, vectorstore.NewMemoryStore())

	err := svc.Update(context.Background(), "missing-id", "x.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)
}

func TestDocumentServiceUpdate_KeepsAssetID(t *testing.T) {
	meta := newFakeMetaStore()
	vectors := vectorstore.NewMemoryStore()
	svc := newTestDocumentService(meta, vectors)

	assetID, err := svc.Create(context.Background(), "v1.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)

	require.NoError(t, svc.Update(context.Background(), assetID, "v2.txt", "txt", []float32{0, 1, 0}))

	doc := meta.docs[assetID]
	require.Equal(t, "v2.txt", doc.DocumentName)

	matches, err := vectors.Query(context.Background(), []float32{0, 1, 0}, vectorstore.Filter{AssetID: assetID}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "v2.txt", matches[0].Entry.DocumentName)
}

func TestDocumentServiceGet_JoinsBothSides(t *testing.T) {
	meta := newFakeMetaStore()
	vectors := vectorstore.NewMemoryStore()
	svc := newTestDocumentService(meta, vectors)

	assetID, err := svc.Create(context.Background(), "spec.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), assetID)
	require.NoError(t, err)
	require.Equal(t, assetID, view.Document.AssetID)
	require.NotNil(t, view.Vector)
	require.Equal(t, assetID, view.Vector.AssetID)
}

func TestDocumentServiceGet_MissingReturnsNotFound(t *testing.T) {
	svc := newTestDocumentService(newFakeMetaStore(), vectorstore.NewMemoryStore())

	_, err := svc.Get(context.Background(), "no-such-id")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDocumentServiceGet_ScopedByAssetID(t *testing.T) {
	meta := newFakeMetaStore()
	vectors := vectorstore.NewMemoryStore()
	svc := newTestDocumentService(meta, vectors)

	// Two documents sharing one name must never leak into each other's view.
	first, err := svc.Create(context.Background(), "shared.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "shared.txt", "txt", []float32{0, 1, 0})
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, second, view.Vector.AssetID)
	require.NotEqual(t, first, view.Vector.AssetID)
}

func TestDocumentServiceGet_QueryFailureIsRetrievalError(t *testing.T) {
	meta := newFakeMetaStore()
	meta.docs["doc-1"] = &model.Document{AssetID: "doc-1", DocumentName: "a.txt", FileType: "txt"}
	svc := newTestDocumentService(meta, &brokenVectorStore{err: errors.New("backend down")})

	_, err := svc.Get(context.Background(), "doc-1")
	require.ErrorIs(t, err, appErr.ErrRetrieval)
}

func TestDocumentServiceDelete_Idempotent(t *testing.T) {
	meta := newFakeMetaStore()
	vectors := vectorstore.NewMemoryStore()
	svc := newTestDocumentService(meta, vectors)

	assetID, err := svc.Create(context.Background(), "gone.txt", "txt", []float32{1, 0, 0})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), assetID))
	require.NoError(t, svc.Delete(context.Background(), assetID))
	require.NoError(t, svc.Delete(context.Background(), "never-existed"))
}

func TestDocumentServiceDelete_MetadataFailurePropagates(t *testing.T) {
	meta := newFakeMetaStore()
	meta.deleteErr = errors.New("db down")
	svc := newTestDocumentService(meta, vectorstore.NewMemoryStore())

	err := svc.Delete(context.Background(), "some-id")
	require.Error(t, err)
}
