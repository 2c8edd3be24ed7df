package assets

import (
	"context"
	"time"
)

// Repo defines persistence operations for assets.
type Repo interface {
	Create(ctx context.Context, a Asset) error
	Get(ctx context.Context, id string) (Asset, error)
	// UpdateStatus sets the status of every listed asset and returns how many rows changed.
	UpdateStatus(ctx context.Context, ids []string, status Status, at time.Time) (int, error)
}
