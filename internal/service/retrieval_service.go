package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
	"github.com/docdexio/docdex/internal/vectorstore"
)

// RetrievalService answers similarity queries against the vector store,
// always scoped by the caller's filter. No matching entries is an empty
// result, not an error; only backend failure surfaces as ErrRetrieval.
type RetrievalService struct {
	vectors  vectorstore.Store
	embedder Embedder
}

func NewRetrievalService(vectors vectorstore.Store, embedder Embedder) *RetrievalService {
	return &RetrievalService{vectors: vectors, embedder: embedder}
}

func (s *RetrievalService) Query(ctx context.Context, probeText string, filter vectorstore.Filter, topK int) ([]model.VectorMatch, error) {
	probe, err := s.embedder.Embed(ctx, probeText, "RETRIEVAL_QUERY")
	if err != nil {
		logutil.GetLogger(ctx).Error("failed to embed query probe", zap.Error(err))
		return nil, fmt.Errorf("%w: embed probe: %v", appErr.ErrRetrieval, err)
	}
	matches, err := s.vectors.Query(ctx, probe, filter, topK)
	if err != nil {
		logutil.GetLogger(ctx).Error("vector store query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", appErr.ErrRetrieval, err)
	}
	return matches, nil
}
