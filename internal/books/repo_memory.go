package books

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Book
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Book)}
}

func (r *MemoryRepo) Create(ctx context.Context, b Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[b.ID] = b
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.data[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

// List returns books newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	all := make([]Book, 0, len(r.data))
	for _, b := range r.data {
		all = append(all, b)
	}
	r.mu.RUnlock()

	if offset >= len(all) {
		return []Book{}, nil
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
