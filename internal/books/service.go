package books

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/reference"
	"bookstore-admin/internal/shared/telemetry"
	"bookstore-admin/internal/shared/validation"
)

// AssetCatalog is the part of the asset service books need.
type AssetCatalog interface {
	Get(ctx context.Context, id string) (assets.Asset, error)
	MarkStatus(ctx context.Context, ids []string, status assets.Status) (int, error)
}

var requestValidator = validation.New(
	validation.Rule{Tag: "genre", Fn: func(fl validator.FieldLevel) bool {
		return reference.KnownGenre(fl.Field().Int())
	}, Message: "is not a known genre"},
	validation.Rule{Tag: "language", Fn: func(fl validator.FieldLevel) bool {
		return reference.KnownLanguage(fl.Field().String())
	}, Message: "is not a supported language"},
)

// Service creates and reads catalog entries.
type Service struct {
	Repo   Repo
	Assets AssetCatalog
	Now    func() time.Time
}

// CreatePaper creates a paper edition.
func (s *Service) CreatePaper(ctx context.Context, ownerID string, req CreateRequest) (Book, error) {
	return s.create(ctx, ownerID, KindPaper, req)
}

// CreateElectronic creates an electronic edition.
func (s *Service) CreateElectronic(ctx context.Context, ownerID string, req CreateRequest) (Book, error) {
	return s.create(ctx, ownerID, KindElectronic, req)
}

func (s *Service) create(ctx context.Context, ownerID string, kind Kind, req CreateRequest) (Book, error) {
	normalize(&req)

	fieldErrs := validation.FieldErrors{}
	if err := requestValidator.Struct(req); err != nil {
		var fe validation.FieldErrors
		if !errors.As(err, &fe) {
			return Book{}, err
		}
		for k, v := range fe {
			fieldErrs[k] = v
		}
	}
	switch kind {
	case KindPaper:
		if req.Book.QuantityOfBooks == nil {
			fieldErrs["book.quantityOfBooks"] = "is required"
		}
		if req.Book.PageSize <= 0 {
			fieldErrs["book.pageSize"] = "must be greater than 0"
		}
		if req.Book.ElectronicBookID != "" {
			fieldErrs["book.electronicBookId"] = "is not allowed here"
		}
	case KindElectronic:
		if req.Book.ElectronicBookID == "" {
			fieldErrs["book.electronicBookId"] = "is required"
		}
		if req.Book.QuantityOfBooks != nil {
			fieldErrs["book.quantityOfBooks"] = "is not allowed here"
		}
	}
	if len(fieldErrs) > 0 {
		return Book{}, fieldErrs
	}

	if err := s.checkAssets(ctx, kind, req, fieldErrs); err != nil {
		return Book{}, err
	}
	if len(fieldErrs) > 0 {
		return Book{}, fieldErrs
	}

	book := Book{
		ID:               uuid.NewString(),
		Kind:             kind,
		OwnerID:          ownerID,
		BookName:         req.BookName,
		Author:           req.Author,
		Description:      req.Description,
		Price:            req.Price,
		Discount:         req.Discount,
		GenreID:          req.GenreID,
		Language:         req.Language,
		YearOfIssue:      req.YearOfIssue,
		BestSeller:       req.BestSeller,
		Images:           append([]string(nil), req.Images...),
		Fragment:         req.Book.Fragment,
		PublishingHouse:  req.Book.PublishingHouse,
		PageSize:         req.Book.PageSize,
		QuantityOfBooks:  req.Book.QuantityOfBooks,
		ElectronicBookID: req.Book.ElectronicBookID,
		CreatedAt:        s.now(),
	}
	if err := s.Repo.Create(ctx, book); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}

	ids := append([]string(nil), book.Images...)
	if book.ElectronicBookID != "" {
		ids = append(ids, book.ElectronicBookID)
	}
	if _, err := s.Assets.MarkStatus(ctx, ids, assets.StatusAttached); err != nil {
		// the book exists; a stale status only affects orphan bookkeeping.
		telemetry.Warn("books.attach_assets_failed", map[string]any{
			"book_id": book.ID,
			"error":   err,
		})
	}
	return book, nil
}

func (s *Service) checkAssets(ctx context.Context, kind Kind, req CreateRequest, fieldErrs validation.FieldErrors) error {
	for i, id := range req.Images {
		if err := s.checkAsset(ctx, id, assets.KindImage); err != nil {
			if !errors.Is(err, ErrInvalidInput) {
				return err
			}
			fieldErrs[fmt.Sprintf("images[%d]", i)] = strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
		}
	}
	if kind == KindElectronic {
		if err := s.checkAsset(ctx, req.Book.ElectronicBookID, assets.KindDocument); err != nil {
			if !errors.Is(err, ErrInvalidInput) {
				return err
			}
			fieldErrs["book.electronicBookId"] = strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
		}
	}
	return nil
}

func (s *Service) checkAsset(ctx context.Context, id string, want assets.Kind) error {
	a, err := s.Assets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			return fmt.Errorf("%w: asset not found", ErrInvalidInput)
		}
		return fmt.Errorf("lookup asset %s: %w", id, err)
	}
	if a.Kind != want {
		return fmt.Errorf("%w: asset must be a %s", ErrInvalidInput, want)
	}
	if a.Status == assets.StatusOrphaned {
		return fmt.Errorf("%w: asset is no longer available", ErrInvalidInput)
	}
	return nil
}

// Get returns one book.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	if strings.TrimSpace(id) == "" {
		return Book{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, id)
}

// List returns books newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Book, error) {
	return s.Repo.List(ctx, limit, offset)
}

func normalize(req *CreateRequest) {
	req.BookName = strings.TrimSpace(req.BookName)
	req.Author = strings.TrimSpace(req.Author)
	req.Description = strings.TrimSpace(req.Description)
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	req.Book.Fragment = strings.TrimSpace(req.Book.Fragment)
	req.Book.PublishingHouse = strings.TrimSpace(req.Book.PublishingHouse)
	req.Book.ElectronicBookID = strings.TrimSpace(req.Book.ElectronicBookID)
	for i := range req.Images {
		req.Images[i] = strings.TrimSpace(req.Images[i])
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
