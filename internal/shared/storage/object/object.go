// Package object defines the blob storage used for uploaded book assets.
package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Stored describes an object after it has been written.
type Stored struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore saves and retrieves binary objects.
// Save namespaces the object under the owner and sniffs its content type from the first bytes.
type ObjectStore interface {
	Save(ctx context.Context, owner, fileName string, r io.Reader) (Stored, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
