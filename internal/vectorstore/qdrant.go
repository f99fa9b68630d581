package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

type qdrantConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Collection string `json:"collection"`
	VectorSize uint64 `json:"vector_size"`
	APIKey     string `json:"api_key"`
	UseTLS     bool   `json:"use_tls"`
}

type qdrantStore struct {
	client     *qdrant.Client
	collection string
}

func init() {
	Register("qdrant", createQdrantStore)
}

func createQdrantStore(args interface{}) (Store, error) {
	cfg := &qdrantConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		cfg.Collection = "docdex"
	}
	if cfg.VectorSize == 0 {
		return nil, fmt.Errorf("qdrant store vector_size is required")
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}
	store := &qdrantStore{client: client, collection: cfg.Collection}
	if err := store.ensureCollection(context.Background(), cfg.VectorSize); err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

func (s *qdrantStore) ensureCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("qdrant: check collection: %w", err)
	}
	if exists {
		return nil
	}
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %q: %w", s.collection, err)
	}
	return nil
}

func (s *qdrantStore) upsert(ctx context.Context, entry *model.VectorEntry) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(entry.AssetID),
		Vectors: qdrant.NewVectors(entry.Embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"asset_id":      entry.AssetID,
			"document_name": entry.DocumentName,
			"file_type":     entry.FileType,
			"mtime":         entry.Mtime,
		}),
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

func (s *qdrantStore) Add(ctx context.Context, entry *model.VectorEntry) error {
	return s.upsert(ctx, entry)
}

func (s *qdrantStore) Update(ctx context.Context, entry *model.VectorEntry) error {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(entry.AssetID)},
	})
	if err != nil {
		return fmt.Errorf("qdrant: get point: %w", err)
	}
	if len(points) == 0 {
		return appErr.ErrNotFound
	}
	return s.upsert(ctx, entry)
}

func (s *qdrantStore) Delete(ctx context.Context, assetID string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDUUID(assetID)),
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete: %w", err)
	}
	return nil
}

func (s *qdrantStore) Query(ctx context.Context, probe []float32, filter Filter, topK int) ([]model.VectorMatch, error) {
	if topK <= 0 {
		topK = 1
	}
	limit := uint64(topK)
	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(probe...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if filter.AssetID != "" {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("asset_id", filter.AssetID),
			},
		}
	}
	results, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}
	matches := make([]model.VectorMatch, 0, len(results))
	for _, r := range results {
		m := model.VectorMatch{Score: r.Score}
		m.Entry.AssetID = r.Id.GetUuid()
		if p := r.Payload; p != nil {
			if v, ok := p["asset_id"]; ok && v.GetStringValue() != "" {
				m.Entry.AssetID = v.GetStringValue()
			}
			if v, ok := p["document_name"]; ok {
				m.Entry.DocumentName = v.GetStringValue()
			}
			if v, ok := p["file_type"]; ok {
				m.Entry.FileType = v.GetStringValue()
			}
			if v, ok := p["mtime"]; ok {
				m.Entry.Mtime = v.GetIntegerValue()
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *qdrantStore) Close() error {
	return s.client.Close()
}
