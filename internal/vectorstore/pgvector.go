package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/docdexio/docdex/internal/model"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

type pgvectorConfig struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

type pgvectorStore struct {
	db    *sqlx.DB
	table string
}

func init() {
	Register("pgvector", createPgvectorStore)
}

func createPgvectorStore(args interface{}) (Store, error) {
	cfg := &pgvectorConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector store dsn is required")
	}
	if cfg.Table == "" {
		cfg.Table = "vector_entries"
	}
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}
	store := &pgvectorStore{db: db, table: cfg.Table}
	if err := store.ensureTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *pgvectorStore) ensureTable() error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			asset_id TEXT PRIMARY KEY,
			embedding vector NOT NULL,
			document_name TEXT NOT NULL,
			file_type TEXT NOT NULL,
			mtime BIGINT NOT NULL
		)`, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("pgvector: ensure table: %w", err)
		}
	}
	return nil
}

func (s *pgvectorStore) Add(ctx context.Context, entry *model.VectorEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (asset_id, embedding, document_name, file_type, mtime)
		VALUES ($1, $2, $3, $4, $5)
	`, s.table)
	_, err := s.db.ExecContext(ctx, query,
		entry.AssetID,
		pgvector.NewVector(entry.Embedding),
		entry.DocumentName,
		entry.FileType,
		entry.Mtime,
	)
	return err
}

func (s *pgvectorStore) Update(ctx context.Context, entry *model.VectorEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET embedding = $2, document_name = $3, file_type = $4, mtime = $5
		WHERE asset_id = $1
	`, s.table)
	res, err := s.db.ExecContext(ctx, query,
		entry.AssetID,
		pgvector.NewVector(entry.Embedding),
		entry.DocumentName,
		entry.FileType,
		entry.Mtime,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (s *pgvectorStore) Delete(ctx context.Context, assetID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE asset_id = $1`, s.table)
	res, err := s.db.ExecContext(ctx, query, assetID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (s *pgvectorStore) Query(ctx context.Context, probe []float32, filter Filter, topK int) ([]model.VectorMatch, error) {
	if topK <= 0 {
		topK = 1
	}
	args := []interface{}{pgvector.NewVector(probe)}
	where := ""
	if filter.AssetID != "" {
		where = "WHERE asset_id = $2"
		args = append(args, filter.AssetID)
	}
	query := fmt.Sprintf(`
		SELECT asset_id, document_name, file_type, mtime, 1 - (embedding <=> $1) AS score
		FROM %s
		%s
		ORDER BY embedding <=> $1
		LIMIT %d
	`, s.table, where, topK)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	matches := make([]model.VectorMatch, 0, topK)
	for rows.Next() {
		var m model.VectorMatch
		if err := rows.Scan(&m.Entry.AssetID, &m.Entry.DocumentName, &m.Entry.FileType, &m.Entry.Mtime, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *pgvectorStore) Close() error {
	return s.db.Close()
}
