package books

import "context"

// Repo defines persistence operations for books.
type Repo interface {
	Create(ctx context.Context, b Book) error
	Get(ctx context.Context, id string) (Book, error)
	List(ctx context.Context, limit, offset int) ([]Book, error)
}
