package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/ai"
	"github.com/docdexio/docdex/internal/repo"
)

var ErrAIUnavailable = ai.ErrUnavailable

// AIService fronts the provider with a two-level embedding cache: an
// in-process expirable LRU and the embedding_cache table. Cache failures
// never block the provider call.
type AIService struct {
	manager *ai.Manager
	cache   *expirable.LRU[string, []float32]
	dbCache *repo.EmbeddingCacheRepo
}

func NewAIService(manager *ai.Manager, dbCache *repo.EmbeddingCacheRepo) *AIService {
	cache := expirable.NewLRU[string, []float32](10000, nil, 2*time.Hour)
	return &AIService{
		manager: manager,
		cache:   cache,
		dbCache: dbCache,
	}
}

func (s *AIService) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	hash := sha256.Sum256([]byte(text))
	contentHash := hex.EncodeToString(hash[:])
	cacheKey := s.manager.EmbeddingModelName() + ":" + taskType + ":" + contentHash
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}
	logger := logutil.GetLogger(ctx)
	if s.dbCache != nil {
		emb, ok, err := s.dbCache.Get(ctx, s.manager.EmbeddingModelName(), taskType, contentHash)
		if err != nil {
			logger.Warn("embedding cache lookup failed", zap.Error(err))
		} else if ok {
			s.cache.Add(cacheKey, emb)
			return emb, nil
		}
	}
	emb, err := s.manager.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	s.cache.Add(cacheKey, emb)
	if s.dbCache != nil {
		if err := s.dbCache.Save(ctx, s.manager.EmbeddingModelName(), taskType, contentHash, emb, time.Now().Unix()); err != nil {
			logger.Warn("embedding cache save failed", zap.Error(err))
		}
	}
	return emb, nil
}

func (s *AIService) Respond(ctx context.Context, message string, contextText string) (string, error) {
	return s.manager.Respond(ctx, message, contextText)
}
