package forms

import (
	"bytes"
	"context"
	"errors"
	"io"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/books"
	"bookstore-admin/internal/shared/validation"
	"bookstore-admin/internal/submission"
)

// AssetStore is the asset service surface the in-process uploader needs.
type AssetStore interface {
	Upload(ctx context.Context, ownerID string, kind assets.Kind, fileName string, r io.Reader) (assets.Asset, error)
	MarkStatus(ctx context.Context, ids []string, status assets.Status) (int, error)
}

// BookCreator is the book service surface the in-process submitter needs.
type BookCreator interface {
	CreatePaper(ctx context.Context, ownerID string, req books.CreateRequest) (books.Book, error)
	CreateElectronic(ctx context.Context, ownerID string, req books.CreateRequest) (books.Book, error)
}

// gatewayError carries the reason that may be shown to the person filling the form.
// An empty user message makes the orchestrator fall back to the edition's text.
type gatewayError struct {
	err  error
	user string
}

func (e *gatewayError) Error() string       { return e.err.Error() }
func (e *gatewayError) Unwrap() error       { return e.err }
func (e *gatewayError) UserMessage() string { return e.user }

// AssetGateway uploads attachments straight into the asset service.
type AssetGateway struct {
	Assets  AssetStore
	OwnerID string
}

// Upload stores one attachment. Failures come back in the result.
func (g AssetGateway) Upload(ctx context.Context, att submission.Attachment, kind submission.AssetKind) submission.AssetUploadResult {
	a, err := g.Assets.Upload(ctx, g.OwnerID, assets.Kind(kind), att.FileName, bytes.NewReader(att.Data))
	if err != nil {
		user := ""
		switch {
		case errors.Is(err, assets.ErrTooLarge), errors.Is(err, assets.ErrUnsupportedType), errors.Is(err, assets.ErrInvalidInput):
			user = err.Error()
		}
		return submission.AssetUploadResult{Err: &gatewayError{err: err, user: user}}
	}
	return submission.AssetUploadResult{ID: a.ID, OK: true}
}

// BookGateway creates catalog entries through the book service.
type BookGateway struct {
	Books   BookCreator
	OwnerID string
}

// Submit creates the book for the edition kind.
func (g BookGateway) Submit(ctx context.Context, kind submission.EditionKind, rec submission.CatalogRecord) (submission.Confirmation, error) {
	req := toCreateRequest(rec)

	var (
		b   books.Book
		err error
	)
	switch kind {
	case submission.KindElectronic:
		b, err = g.Books.CreateElectronic(ctx, g.OwnerID, req)
	default:
		b, err = g.Books.CreatePaper(ctx, g.OwnerID, req)
	}
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) || errors.Is(err, books.ErrInvalidInput) {
			return submission.Confirmation{}, &gatewayError{err: err, user: err.Error()}
		}
		return submission.Confirmation{}, &gatewayError{err: err}
	}
	return submission.Confirmation{ID: b.ID, BookName: b.BookName}, nil
}

func toCreateRequest(rec submission.CatalogRecord) books.CreateRequest {
	return books.CreateRequest{
		Images:      append([]string(nil), rec.Images...),
		BookName:    rec.BookName,
		Author:      rec.Author,
		Description: rec.Description,
		Price:       rec.Price,
		Discount:    rec.Discount,
		GenreID:     rec.GenreID,
		Language:    rec.Language,
		YearOfIssue: rec.YearOfIssue,
		BestSeller:  rec.BestSeller,
		Book: books.DetailsRequest{
			Fragment:         rec.Book.Fragment,
			PublishingHouse:  rec.Book.PublishingHouse,
			PageSize:         rec.Book.PageSize,
			QuantityOfBooks:  rec.Book.QuantityOfBooks,
			ElectronicBookID: rec.Book.ElectronicBookID,
		},
	}
}

// DirectOrphans marks orphaned assets without going through a queue.
type DirectOrphans struct {
	Assets AssetStore
}

// ReportOrphans flags the assets as orphaned.
func (d DirectOrphans) ReportOrphans(ctx context.Context, assetIDs []string, _ string) error {
	_, err := d.Assets.MarkStatus(ctx, assetIDs, assets.StatusOrphaned)
	return err
}

// InProcessDeps wires the pipeline to services running in this process.
func InProcessDeps(assetStore AssetStore, bookCreator BookCreator, orphans submission.OrphanReporter) DepsFunc {
	if orphans == nil {
		orphans = DirectOrphans{Assets: assetStore}
	}
	return func(ownerID string) submission.Deps {
		return submission.Deps{
			Uploader:  AssetGateway{Assets: assetStore, OwnerID: ownerID},
			Submitter: BookGateway{Books: bookCreator, OwnerID: ownerID},
			Orphans:   orphans,
		}
	}
}
