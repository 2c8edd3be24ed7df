package assets

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new asset.
func (r *PGRepo) Create(ctx context.Context, a Asset) error {
	const query = `
INSERT INTO assets (
    id,
    owner_id,
    kind,
    file_name,
    content_type,
    size_bytes,
    page_count,
    storage_key,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	var pageCount sql.NullInt64
	if a.PageCount > 0 {
		pageCount = sql.NullInt64{Int64: int64(a.PageCount), Valid: true}
	}
	status := a.Status
	if status == "" {
		status = StatusPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		a.ID,
		a.OwnerID,
		string(a.Kind),
		a.FileName,
		a.ContentType,
		a.SizeBytes,
		pageCount,
		a.StorageKey,
		string(status),
		a.CreatedAt,
	)
	return err
}

// Get fetches an asset by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Asset, error) {
	const query = `
SELECT id, owner_id, kind, file_name, content_type, size_bytes, page_count, storage_key, status, created_at, updated_at
FROM assets
WHERE id = $1
LIMIT 1`

	var a Asset
	var kind, status string
	var pageCount sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.OwnerID,
		&kind,
		&a.FileName,
		&a.ContentType,
		&a.SizeBytes,
		&pageCount,
		&a.StorageKey,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	a.Kind = Kind(kind)
	a.Status = Status(status)
	if pageCount.Valid {
		a.PageCount = int(pageCount.Int64)
	}
	return a, nil
}

// UpdateStatus moves the listed assets to status. Rows already in that status are left alone.
func (r *PGRepo) UpdateStatus(ctx context.Context, ids []string, status Status, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `
UPDATE assets
SET status = $1, updated_at = $2
WHERE id = ANY($3) AND status <> $1`

	res, err := r.DB.ExecContext(ctx, query, string(status), at, ids)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

var _ Repo = (*PGRepo)(nil)
