package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

// memoryStore is an in-process backend for development and tests. Entries
// live in a guarded map and queries do a brute-force cosine scan.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.VectorEntry
}

func init() {
	Register("memory", func(args interface{}) (Store, error) {
		return NewMemoryStore(), nil
	})
}

func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]model.VectorEntry)}
}

func (s *memoryStore) Add(ctx context.Context, entry *model.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.AssetID] = *entry
	return nil
}

func (s *memoryStore) Update(ctx context.Context, entry *model.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.AssetID]; !ok {
		return appErr.ErrNotFound
	}
	s.entries[entry.AssetID] = *entry
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[assetID]; !ok {
		return appErr.ErrNotFound
	}
	delete(s.entries, assetID)
	return nil
}

func (s *memoryStore) Query(ctx context.Context, probe []float32, filter Filter, topK int) ([]model.VectorMatch, error) {
	if topK <= 0 {
		topK = 1
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]model.VectorMatch, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.AssetID != "" && entry.AssetID != filter.AssetID {
			continue
		}
		matches = append(matches, model.VectorMatch{
			Entry: entry,
			Score: cosineSimilarity(probe, entry.Embedding),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *memoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
