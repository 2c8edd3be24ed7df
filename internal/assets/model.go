package assets

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("asset not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Kind selects the upload endpoint and the checks applied to the bytes.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// Status tracks whether a book references the asset.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAttached Status = "attached"
	StatusOrphaned Status = "orphaned"
)

// ParseStatus rejects unknown status strings.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAttached, StatusOrphaned:
		return Status(s), nil
	default:
		return "", ErrInvalidInput
	}
}

// Asset is one stored image or e-book file.
type Asset struct {
	ID          string
	OwnerID     string
	Kind        Kind
	FileName    string
	ContentType string
	SizeBytes   int64
	PageCount   int
	StorageKey  string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Response is the outward-facing representation of an asset.
type Response struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	PageCount   int       `json:"pageCount,omitempty"`
	Status      Status    `json:"status"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func toResponse(a Asset) Response {
	return Response{
		ID:          a.ID,
		Kind:        a.Kind,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		PageCount:   a.PageCount,
		Status:      a.Status,
		UploadedAt:  a.CreatedAt,
	}
}
