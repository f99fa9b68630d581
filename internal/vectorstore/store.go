// Package vectorstore abstracts the similarity-search side of the dual
// store. Entries are keyed by asset id; queries are scoped by identifier
// equality, never by a text probe.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/docdexio/docdex/internal/model"
)

// Filter restricts a query to a subset of entries. An empty AssetID matches
// every entry.
type Filter struct {
	AssetID string
}

type Store interface {
	Add(ctx context.Context, entry *model.VectorEntry) error
	Update(ctx context.Context, entry *model.VectorEntry) error
	Delete(ctx context.Context, assetID string) error
	// Query returns up to topK matches ordered by decreasing similarity.
	// An empty result is not an error.
	Query(ctx context.Context, probe []float32, filter Filter, topK int) ([]model.VectorMatch, error)
	Close() error
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(typ string, args interface{}) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return nil, fmt.Errorf("vector_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported vector store type: %s", typ)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode vector store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode vector store config: %w", err)
	}
	return nil
}
