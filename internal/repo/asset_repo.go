package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/docdexio/docdex/internal/model"
	"github.com/docdexio/docdex/internal/pkg/dbutil"
	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

var assetFields = []string{"asset_id", "document_name", "file_type", "ctime", "mtime"}

// AssetRepo is the metadata-store adapter: one row per logical document,
// keyed by the asset id shared with the vector store.
type AssetRepo struct {
	db *sqlx.DB
}

func NewAssetRepo(db *sqlx.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

func (r *AssetRepo) Insert(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"asset_id":      doc.AssetID,
		"document_name": doc.DocumentName,
		"file_type":     doc.FileType,
		"ctime":         doc.Ctime,
		"mtime":         doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("assets", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil && dbutil.IsConflict(err) {
		return appErr.ErrInternal
	}
	return err
}

func (r *AssetRepo) GetByID(ctx context.Context, assetID string) (*model.Document, error) {
	where := map[string]interface{}{
		"asset_id": assetID,
	}
	sqlStr, args, err := builder.BuildSelect("assets", where, assetFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var doc model.Document
	if err := r.db.GetContext(ctx, &doc, sqlStr, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *AssetRepo) Update(ctx context.Context, doc *model.Document) error {
	where := map[string]interface{}{
		"asset_id": doc.AssetID,
	}
	update := map[string]interface{}{
		"document_name": doc.DocumentName,
		"file_type":     doc.FileType,
		"mtime":         doc.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("assets", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *AssetRepo) Delete(ctx context.Context, assetID string) error {
	sqlStr, args, err := builder.BuildDelete("assets", map[string]interface{}{
		"asset_id": assetID,
	})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *AssetRepo) List(ctx context.Context, limit, offset uint) ([]model.Document, error) {
	where := map[string]interface{}{
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("assets", where, assetFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	docs := make([]model.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, sqlStr, args...); err != nil {
		return nil, err
	}
	return docs, nil
}
