package assets

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Asset
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Asset)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.ID] = a
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, ids []string, status Status, at time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		a, ok := r.data[id]
		if !ok || a.Status == status {
			continue
		}
		a.Status = status
		a.UpdatedAt = at
		r.data[id] = a
		n++
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
