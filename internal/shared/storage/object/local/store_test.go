package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"bookstore-admin/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	stored, err := store.Save(ctx, "vendor-1", "cover.png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %s", stored.ContentType)
	}
	if stored.SizeBytes != int64(len(png)) {
		t.Fatalf("expected size %d, got %d", len(png), stored.SizeBytes)
	}
	if !strings.HasSuffix(stored.Key, "_cover.png") {
		t.Fatalf("unexpected key %s", stored.Key)
	}

	rc, err := store.Open(ctx, stored.Key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, png) {
		t.Fatalf("content mismatch")
	}

	if err := store.Delete(ctx, stored.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, stored.Key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, stored.Key); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
