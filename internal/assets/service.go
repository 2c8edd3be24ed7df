package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookstore-admin/internal/shared/storage/object"
	"bookstore-admin/internal/shared/telemetry"
)

const (
	DefaultMaxImageBytes    int64 = 5 << 20
	DefaultMaxDocumentBytes int64 = 50 << 20
)

// Service stores uploaded book assets and tracks whether a book uses them.
type Service struct {
	Store            object.ObjectStore
	Repo             Repo
	MaxImageBytes    int64
	MaxDocumentBytes int64
	Now              func() time.Time
}

// Upload checks the payload, writes it to object storage and records a pending asset.
func (s *Service) Upload(ctx context.Context, ownerID string, kind Kind, fileName string, r io.Reader) (Asset, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Asset{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(ownerID) == "" {
		return Asset{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	limit := s.limitFor(kind)
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Asset{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Asset{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if int64(len(data)) > limit {
		return Asset{}, fmt.Errorf("%w: %s uploads are limited to %d bytes", ErrTooLarge, kind, limit)
	}

	info, err := inspect(kind, data)
	if err != nil {
		return Asset{}, err
	}

	stored, err := s.Store.Save(ctx, ownerID, fileName, bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("store %s: %w", kind, err)
	}

	now := s.now()
	asset := Asset{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Kind:        kind,
		FileName:    fileName,
		ContentType: info.ContentType,
		SizeBytes:   stored.SizeBytes,
		PageCount:   info.PageCount,
		StorageKey:  stored.Key,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, asset); err != nil {
		if delErr := s.Store.Delete(ctx, stored.Key); delErr != nil {
			telemetry.Warn("assets.cleanup_failed", map[string]any{
				"storage_key": stored.Key,
				"error":       delErr,
			})
		}
		return Asset{}, fmt.Errorf("record asset: %w", err)
	}
	return asset, nil
}

// Get returns the asset metadata.
func (s *Service) Get(ctx context.Context, id string) (Asset, error) {
	if strings.TrimSpace(id) == "" {
		return Asset{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, id)
}

// Open returns the asset metadata and a reader over its bytes. The caller closes the reader.
func (s *Service) Open(ctx context.Context, id string) (Asset, io.ReadCloser, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return Asset{}, nil, err
	}
	body, err := s.Store.Open(ctx, asset.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Asset{}, nil, ErrNotFound
		}
		return Asset{}, nil, err
	}
	return asset, body, nil
}

// MarkStatus moves assets to status and returns how many changed.
func (s *Service) MarkStatus(ctx context.Context, ids []string, status Status) (int, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return 0, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, nil
	}
	n, err := s.Repo.UpdateStatus(ctx, clean, status, s.now())
	if err != nil {
		return 0, fmt.Errorf("update asset status: %w", err)
	}
	return n, nil
}

func (s *Service) limitFor(kind Kind) int64 {
	if kind == KindDocument {
		if s.MaxDocumentBytes > 0 {
			return s.MaxDocumentBytes
		}
		return DefaultMaxDocumentBytes
	}
	if s.MaxImageBytes > 0 {
		return s.MaxImageBytes
	}
	return DefaultMaxImageBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
