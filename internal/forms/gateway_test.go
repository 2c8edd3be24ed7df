package forms

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/books"
	"bookstore-admin/internal/shared/validation"
	"bookstore-admin/internal/submission"
)

type stubAssets struct {
	uploadErr error
	owner     string
	kind      assets.Kind
	marked    []string
	status    assets.Status
}

func (s *stubAssets) Upload(_ context.Context, ownerID string, kind assets.Kind, fileName string, r io.Reader) (assets.Asset, error) {
	if s.uploadErr != nil {
		return assets.Asset{}, s.uploadErr
	}
	s.owner = ownerID
	s.kind = kind
	return assets.Asset{ID: "asset-" + fileName}, nil
}

func (s *stubAssets) MarkStatus(_ context.Context, ids []string, status assets.Status) (int, error) {
	s.marked = append(s.marked, ids...)
	s.status = status
	return len(ids), nil
}

type stubBooks struct {
	err  error
	kind books.Kind
	req  books.CreateRequest
}

func (s *stubBooks) CreatePaper(_ context.Context, _ string, req books.CreateRequest) (books.Book, error) {
	s.kind, s.req = books.KindPaper, req
	if s.err != nil {
		return books.Book{}, s.err
	}
	return books.Book{ID: "book-1", BookName: "Confirmed " + req.BookName}, nil
}

func (s *stubBooks) CreateElectronic(_ context.Context, _ string, req books.CreateRequest) (books.Book, error) {
	s.kind, s.req = books.KindElectronic, req
	if s.err != nil {
		return books.Book{}, s.err
	}
	return books.Book{ID: "book-2", BookName: req.BookName}, nil
}

func userMessageOf(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return ""
}

func TestAssetGatewayUpload(t *testing.T) {
	store := &stubAssets{}
	g := AssetGateway{Assets: store, OwnerID: "vendor-1"}

	res := g.Upload(context.Background(), submission.Attachment{FileName: "book.pdf", Data: []byte("x")}, submission.AssetDocument)
	require.True(t, res.OK)
	assert.Equal(t, "asset-book.pdf", res.ID)
	assert.Equal(t, "vendor-1", store.owner)
	assert.Equal(t, assets.KindDocument, store.kind)
}

func TestAssetGatewayFailuresAreData(t *testing.T) {
	store := &stubAssets{uploadErr: errors.New("s3 unreachable")}
	g := AssetGateway{Assets: store, OwnerID: "vendor-1"}

	res := g.Upload(context.Background(), submission.Attachment{FileName: "a.png", Data: []byte("x")}, submission.AssetImage)
	assert.False(t, res.OK)
	require.Error(t, res.Err)
	assert.Empty(t, userMessageOf(res.Err), "internal failures fall back to the edition message")

	store.uploadErr = assets.ErrUnsupportedType
	res = g.Upload(context.Background(), submission.Attachment{FileName: "a.txt", Data: []byte("x")}, submission.AssetImage)
	assert.Equal(t, assets.ErrUnsupportedType.Error(), userMessageOf(res.Err))
}

func TestBookGatewaySubmit(t *testing.T) {
	creator := &stubBooks{}
	g := BookGateway{Books: creator, OwnerID: "admin-1"}
	qty := 4
	discount := 10.0

	conf, err := g.Submit(context.Background(), submission.KindPaper, submission.CatalogRecord{
		Images:   []string{"1", "2", "3"},
		BookName: "Foo",
		Discount: &discount,
		Book:     submission.EditionDetails{QuantityOfBooks: &qty, PageSize: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed Foo", conf.BookName)
	assert.Equal(t, books.KindPaper, creator.kind)
	assert.Equal(t, []string{"1", "2", "3"}, creator.req.Images)
	assert.Equal(t, &qty, creator.req.Book.QuantityOfBooks)
	assert.Equal(t, 100, creator.req.Book.PageSize)

	_, err = g.Submit(context.Background(), submission.KindElectronic, submission.CatalogRecord{BookName: "Bar"})
	require.NoError(t, err)
	assert.Equal(t, books.KindElectronic, creator.kind)
}

func TestBookGatewayErrorMessages(t *testing.T) {
	creator := &stubBooks{err: validation.FieldErrors{"genreId": "is not a known genre"}}
	g := BookGateway{Books: creator, OwnerID: "admin-1"}

	_, err := g.Submit(context.Background(), submission.KindPaper, submission.CatalogRecord{})
	require.Error(t, err)
	assert.Equal(t, "validation failed: genreId is not a known genre", userMessageOf(err))

	creator.err = errors.New("connection reset")
	_, err = g.Submit(context.Background(), submission.KindPaper, submission.CatalogRecord{})
	require.Error(t, err)
	assert.Empty(t, userMessageOf(err))
}

func TestDirectOrphansMarksAssets(t *testing.T) {
	store := &stubAssets{}
	err := DirectOrphans{Assets: store}.ReportOrphans(context.Background(), []string{"a", "b"}, "rejected")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, store.marked)
	assert.Equal(t, assets.StatusOrphaned, store.status)
}
