package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/model"
	"github.com/docdexio/docdex/internal/pkg/ids"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/pkg/timeutil"
	"github.com/docdexio/docdex/internal/vectorstore"
)

// MetadataStore is the relational side of the dual store.
type MetadataStore interface {
	Insert(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, assetID string) (*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, assetID string) error
}

// Embedder produces the fixed-length vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// DocumentService owns the consistency contract between the metadata store
// and the vector store. The two stores fail independently and offer no
// shared transaction coordinator, so writes are sequential and best-effort:
// a failure on one side is logged and contained as long as the other side
// succeeds. This availability-over-consistency stance is deliberate and
// relied upon by callers.
type DocumentService struct {
	meta         MetadataStore
	vectors      vectorstore.Store
	embedder     Embedder
	storeTimeout time.Duration
}

func NewDocumentService(meta MetadataStore, vectors vectorstore.Store, embedder Embedder, storeTimeout time.Duration) *DocumentService {
	return &DocumentService{
		meta:         meta,
		vectors:      vectors,
		embedder:     embedder,
		storeTimeout: storeTimeout,
	}
}

func (s *DocumentService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Create assigns a fresh asset id and writes the vector entry, then the
// metadata row. A vector-side failure degrades retrieval but must not block
// bookkeeping; only a metadata-side failure propagates.
func (s *DocumentService) Create(ctx context.Context, name, fileType string, embedding []float32) (string, error) {
	assetID := ids.New()
	now := timeutil.NowUnixMilli()
	logger := logutil.GetLogger(ctx).With(zap.String("asset_id", assetID))

	vctx, cancel := s.storeCtx(ctx)
	err := s.vectors.Add(vctx, &model.VectorEntry{
		AssetID:      assetID,
		Embedding:    embedding,
		DocumentName: name,
		FileType:     fileType,
		Mtime:        now,
	})
	cancel()
	if err != nil {
		logger.Error("vector store write failed, metadata write proceeds", zap.Error(err))
	}

	mctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.meta.Insert(mctx, &model.Document{
		AssetID:      assetID,
		DocumentName: name,
		FileType:     fileType,
		Ctime:        now,
		Mtime:        now,
	}); err != nil {
		logger.Error("metadata store write failed", zap.Error(err))
		return "", err
	}
	logger.Info("document created", zap.String("name", name), zap.String("file_type", fileType))
	return assetID, nil
}

// Update overwrites both sides for an existing asset id. Either side being
// absent is a logged no-op; partial success is possible and not rolled
// back. The asset id itself never changes.
func (s *DocumentService) Update(ctx context.Context, assetID, name, fileType string, embedding []float32) error {
	now := timeutil.NowUnixMilli()
	logger := logutil.GetLogger(ctx).With(zap.String("asset_id", assetID))

	vctx, cancel := s.storeCtx(ctx)
	err := s.vectors.Update(vctx, &model.VectorEntry{
		AssetID:      assetID,
		Embedding:    embedding,
		DocumentName: name,
		FileType:     fileType,
		Mtime:        now,
	})
	cancel()
	switch {
	case err == nil:
	case appErr.IsNotFound(err):
		logger.Warn("vector entry not found, skipping vector update")
	default:
		logger.Error("vector store update failed", zap.Error(err))
	}

	mctx, cancel := s.storeCtx(ctx)
	defer cancel()
	err = s.meta.Update(mctx, &model.Document{
		AssetID:      assetID,
		DocumentName: name,
		FileType:     fileType,
		Mtime:        now,
	})
	switch {
	case err == nil:
		logger.Info("document updated")
	case appErr.IsNotFound(err):
		logger.Warn("metadata record not found, skipping metadata update")
	default:
		logger.Error("metadata store update failed", zap.Error(err))
		return err
	}
	return nil
}

// Get joins the metadata row with the vector entry. The vector side is
// fetched through a similarity query scoped strictly by asset id, so a
// shared document name can never surface an unrelated entry.
func (s *DocumentService) Get(ctx context.Context, assetID string) (*model.DocumentView, error) {
	mctx, cancel := s.storeCtx(ctx)
	doc, err := s.meta.GetByID(mctx, assetID)
	cancel()
	if err != nil {
		return nil, err
	}

	probe, err := s.embedder.Embed(ctx, doc.DocumentName, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: embed probe: %v", appErr.ErrRetrieval, err)
	}
	vctx, cancel := s.storeCtx(ctx)
	defer cancel()
	matches, err := s.vectors.Query(vctx, probe, vectorstore.Filter{AssetID: assetID}, 1)
	if err != nil {
		logutil.GetLogger(ctx).Error("vector store query failed", zap.String("asset_id", assetID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", appErr.ErrRetrieval, err)
	}
	if len(matches) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &model.DocumentView{Document: doc, Vector: &matches[0].Entry}, nil
}

// Delete removes both sides and is idempotent: a missing entry or row is a
// logged warning, never an error. The freed identifier is never reassigned.
func (s *DocumentService) Delete(ctx context.Context, assetID string) error {
	logger := logutil.GetLogger(ctx).With(zap.String("asset_id", assetID))

	vctx, cancel := s.storeCtx(ctx)
	err := s.vectors.Delete(vctx, assetID)
	cancel()
	switch {
	case err == nil:
	case appErr.IsNotFound(err):
		logger.Warn("vector entry not found during delete")
	default:
		logger.Error("vector store delete failed", zap.Error(err))
	}

	mctx, cancel := s.storeCtx(ctx)
	defer cancel()
	err = s.meta.Delete(mctx, assetID)
	switch {
	case err == nil:
		logger.Info("document deleted")
	case appErr.IsNotFound(err):
		logger.Warn("metadata record not found during delete")
	default:
		logger.Error("metadata store delete failed", zap.Error(err))
		return err
	}
	return nil
}
