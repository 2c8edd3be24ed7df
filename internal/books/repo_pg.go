package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const bookColumns = `id, kind, owner_id, book_name, author, description, price, discount, genre_id, language, year_of_issue, best_seller, images, fragment, publishing_house, page_size, quantity_of_books, electronic_book_id, created_at`

// Create inserts a new book.
func (r *PGRepo) Create(ctx context.Context, b Book) error {
	const query = `
INSERT INTO books (` + bookColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	images, err := json.Marshal(b.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	var discount sql.NullFloat64
	if b.Discount != nil {
		discount = sql.NullFloat64{Float64: *b.Discount, Valid: true}
	}
	var quantity sql.NullInt64
	if b.QuantityOfBooks != nil {
		quantity = sql.NullInt64{Int64: int64(*b.QuantityOfBooks), Valid: true}
	}
	var electronicID sql.NullString
	if b.ElectronicBookID != "" {
		electronicID = sql.NullString{String: b.ElectronicBookID, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		b.ID,
		string(b.Kind),
		b.OwnerID,
		b.BookName,
		b.Author,
		b.Description,
		b.Price,
		discount,
		b.GenreID,
		b.Language,
		b.YearOfIssue,
		b.BestSeller,
		images,
		b.Fragment,
		b.PublishingHouse,
		b.PageSize,
		quantity,
		electronicID,
		b.CreatedAt,
	)
	return err
}

// Get fetches a book by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 LIMIT 1`
	b, err := scanBook(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// List lists books ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Book, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	var kind string
	var images []byte
	var discount sql.NullFloat64
	var quantity sql.NullInt64
	var electronicID sql.NullString
	if err := row.Scan(
		&b.ID,
		&kind,
		&b.OwnerID,
		&b.BookName,
		&b.Author,
		&b.Description,
		&b.Price,
		&discount,
		&b.GenreID,
		&b.Language,
		&b.YearOfIssue,
		&b.BestSeller,
		&images,
		&b.Fragment,
		&b.PublishingHouse,
		&b.PageSize,
		&quantity,
		&electronicID,
		&b.CreatedAt,
	); err != nil {
		return Book{}, err
	}
	b.Kind = Kind(kind)
	if len(images) > 0 {
		if err := json.Unmarshal(images, &b.Images); err != nil {
			return Book{}, fmt.Errorf("decode images for book %s: %w", b.ID, err)
		}
	}
	if discount.Valid {
		d := discount.Float64
		b.Discount = &d
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		b.QuantityOfBooks = &q
	}
	if electronicID.Valid {
		b.ElectronicBookID = electronicID.String
	}
	return b, nil
}

var _ Repo = (*PGRepo)(nil)
