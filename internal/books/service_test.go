package books

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/shared/validation"
)

type fakeAssets struct {
	items  map[string]assets.Asset
	marked []string
	status assets.Status
	err    error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{items: map[string]assets.Asset{
		"img-1": {ID: "img-1", Kind: assets.KindImage, Status: assets.StatusPending},
		"img-2": {ID: "img-2", Kind: assets.KindImage, Status: assets.StatusPending},
		"img-3": {ID: "img-3", Kind: assets.KindImage, Status: assets.StatusPending},
		"doc-1": {ID: "doc-1", Kind: assets.KindDocument, Status: assets.StatusPending},
	}}
}

func (f *fakeAssets) Get(_ context.Context, id string) (assets.Asset, error) {
	a, ok := f.items[id]
	if !ok {
		return assets.Asset{}, assets.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssets) MarkStatus(_ context.Context, ids []string, status assets.Status) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.marked = append(f.marked, ids...)
	f.status = status
	return len(ids), nil
}

func paperRequest() CreateRequest {
	qty := 10
	return CreateRequest{
		Images:      []string{"img-1", "img-2", "img-3"},
		BookName:    "Foo",
		Author:      "Bar",
		Description: "A book",
		Price:       12.5,
		GenreID:     3,
		Language:    "en",
		YearOfIssue: 2020,
		Book: DetailsRequest{
			Fragment:        "Once upon a time",
			PublishingHouse: "House",
			PageSize:        320,
			QuantityOfBooks: &qty,
		},
	}
}

func electronicRequest() CreateRequest {
	req := paperRequest()
	req.Book.QuantityOfBooks = nil
	req.Book.PageSize = 0
	req.Book.ElectronicBookID = "doc-1"
	return req
}

func newService(catalog AssetCatalog) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Service{Repo: repo, Assets: catalog, Now: func() time.Time { return now }}, repo
}

func fieldErrors(t *testing.T, err error) validation.FieldErrors {
	t.Helper()
	var fe validation.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	return fe
}

func TestCreatePaperPersistsAndAttachesAssets(t *testing.T) {
	catalog := newFakeAssets()
	svc, repo := newService(catalog)

	book, err := svc.CreatePaper(context.Background(), "admin-1", paperRequest())
	if err != nil {
		t.Fatalf("CreatePaper: %v", err)
	}
	if book.ID == "" || book.BookName != "Foo" || book.Kind != KindPaper {
		t.Fatalf("unexpected book %+v", book)
	}

	stored, err := repo.Get(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("repo.Get: %v", err)
	}
	if stored.OwnerID != "admin-1" || len(stored.Images) != 3 {
		t.Fatalf("unexpected stored book %+v", stored)
	}
	if catalog.status != assets.StatusAttached || len(catalog.marked) != 3 {
		t.Fatalf("expected three attached assets, got %v (%s)", catalog.marked, catalog.status)
	}
}

func TestCreateElectronicAttachesDocument(t *testing.T) {
	catalog := newFakeAssets()
	svc, _ := newService(catalog)

	book, err := svc.CreateElectronic(context.Background(), "vendor-1", electronicRequest())
	if err != nil {
		t.Fatalf("CreateElectronic: %v", err)
	}
	if book.ElectronicBookID != "doc-1" {
		t.Fatalf("expected document id, got %q", book.ElectronicBookID)
	}
	if len(catalog.marked) != 4 || catalog.marked[3] != "doc-1" {
		t.Fatalf("expected images and document attached, got %v", catalog.marked)
	}
}

func TestCreatePaperRejectsInvalidFields(t *testing.T) {
	svc, _ := newService(newFakeAssets())

	req := paperRequest()
	req.GenreID = 99
	req.Language = "xx"
	discount := 150.0
	req.Discount = &discount
	req.Book.QuantityOfBooks = nil
	req.Images = []string{"img-1", "", "img-3"}

	_, err := svc.CreatePaper(context.Background(), "admin-1", req)
	fe := fieldErrors(t, err)
	for _, key := range []string{"genreId", "language", "discount", "book.quantityOfBooks", "images[1]"} {
		if _, ok := fe[key]; !ok {
			t.Fatalf("expected error for %s, got %v", key, fe)
		}
	}
	if fe["genreId"] != "is not a known genre" {
		t.Fatalf("unexpected genre message %q", fe["genreId"])
	}
}

func TestCreateElectronicRequiresDocument(t *testing.T) {
	svc, _ := newService(newFakeAssets())

	req := electronicRequest()
	req.Book.ElectronicBookID = "  "

	_, err := svc.CreateElectronic(context.Background(), "vendor-1", req)
	fe := fieldErrors(t, err)
	if fe["book.electronicBookId"] != "is required" {
		t.Fatalf("expected electronicBookId required, got %v", fe)
	}
}

func TestCreateChecksReferencedAssets(t *testing.T) {
	catalog := newFakeAssets()
	catalog.items["img-2"] = assets.Asset{ID: "img-2", Kind: assets.KindImage, Status: assets.StatusOrphaned}
	svc, repo := newService(catalog)

	req := electronicRequest()
	req.Images = []string{"img-1", "img-2", "missing"}
	req.Book.ElectronicBookID = "img-1"

	_, err := svc.CreateElectronic(context.Background(), "vendor-1", req)
	fe := fieldErrors(t, err)
	if fe["images[1]"] != "asset is no longer available" {
		t.Fatalf("expected orphaned image rejected, got %v", fe)
	}
	if fe["images[2]"] != "asset not found" {
		t.Fatalf("expected missing image rejected, got %v", fe)
	}
	if fe["book.electronicBookId"] != "asset must be a document" {
		t.Fatalf("expected wrong kind rejected, got %v", fe)
	}

	items, _ := repo.List(context.Background(), 10, 0)
	if len(items) != 0 {
		t.Fatalf("expected nothing persisted, got %d books", len(items))
	}
	if len(catalog.marked) != 0 {
		t.Fatalf("expected no status changes, got %v", catalog.marked)
	}
}

func TestCreateSucceedsWhenAttachFails(t *testing.T) {
	catalog := newFakeAssets()
	catalog.err = errors.New("db down")
	svc, _ := newService(catalog)

	if _, err := svc.CreatePaper(context.Background(), "admin-1", paperRequest()); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
}

func TestGetUnknownBook(t *testing.T) {
	svc, _ := newService(newFakeAssets())
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_ = repo.Create(context.Background(), Book{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	svc := &Service{Repo: repo}

	items, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c" || items[1].ID != "b" {
		t.Fatalf("unexpected order %+v", items)
	}
	rest, _ := svc.List(context.Background(), 2, 2)
	if len(rest) != 1 || rest[0].ID != "a" {
		t.Fatalf("unexpected second page %+v", rest)
	}
}
