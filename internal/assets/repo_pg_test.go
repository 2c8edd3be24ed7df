package assets

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// passThrough lets sqlmock accept the []string passed to ANY($n).
type passThrough struct{}

func (passThrough) ConvertValue(v any) (driver.Value, error) { return v, nil }

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	a := Asset{
		ID:          "asset-1",
		OwnerID:     "vendor-1",
		Kind:        KindDocument,
		FileName:    "book.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		PageCount:   12,
		StorageKey:  "abc/book.pdf",
		CreatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO assets").
		WithArgs("asset-1", "vendor-1", "document", "book.pdf", "application/pdf", int64(2048), int64(12), "abc/book.pdf", "pending", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "kind", "file_name", "content_type", "size_bytes", "page_count", "storage_key", "status", "created_at", "updated_at"}).
		AddRow("asset-1", "vendor-1", "image", "cover.png", "image/png", int64(100), nil, "k", "attached", now, now)
	mock.ExpectQuery("SELECT id, owner_id, kind").WithArgs("asset-1").WillReturnRows(rows)

	a, err := repo.Get(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Kind != KindImage || a.Status != StatusAttached || a.PageCount != 0 {
		t.Fatalf("unexpected asset %+v", a)
	}

	mock.ExpectQuery("SELECT id, owner_id, kind").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passThrough{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	ids := []string{"a", "b"}
	mock.ExpectExec("UPDATE assets").
		WithArgs("orphaned", now, ids).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.UpdateStatus(context.Background(), ids, StatusOrphaned, now)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	if n, err := repo.UpdateStatus(context.Background(), nil, StatusOrphaned, now); err != nil || n != 0 {
		t.Fatalf("expected no-op for empty ids, got n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
