package catalogclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/assets/assettest"
	"bookstore-admin/internal/books"
	"bookstore-admin/internal/shared/auth"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/storage/object/local"
	"bookstore-admin/internal/submission"
)

func newServer(t *testing.T, env string) (*httptest.Server, *books.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assetSvc := &assets.Service{Store: local.New(t.TempDir()), Repo: assets.NewMemoryRepo()}
	bookRepo := books.NewMemoryRepo()
	bookSvc := &books.Service{Repo: bookRepo, Assets: assetSvc}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth(env))
	api := r.Group("/api/v1")
	assets.NewHandler(assetSvc).RegisterRoutes(api)
	books.NewHandler(bookSvc).RegisterRoutes(api)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, bookRepo
}

func electronicDraft() submission.Draft {
	return submission.Draft{
		BookName:        "Foo",
		Author:          "Bar",
		PublishingHouse: "House",
		Description:     "desc",
		Fragment:        "frag",
		Price:           "9.99",
		DataOfIssue:     "2021",
		GenreID:         "3",
		Language:        "en",
		Attachments: map[submission.Slot]submission.Attachment{
			submission.SlotMainImage:   {FileName: "1.png", ContentType: "image/png", Data: assettest.PNG("1")},
			submission.SlotSecondImage: {FileName: "2.png", ContentType: "image/png", Data: assettest.PNG("2")},
			submission.SlotThirdImage:  {FileName: "3.png", ContentType: "image/png", Data: assettest.PNG("3")},
			submission.SlotDocument:    {FileName: "book.pdf", ContentType: "application/pdf", Data: assettest.PDF(4)},
		},
	}
}

func TestClientDrivesOrchestratorAgainstAPI(t *testing.T) {
	srv, repo := newServer(t, "dev")
	client, err := New(Options{BaseURL: srv.URL, UserID: "vendor-7", Role: "vendor"})
	require.NoError(t, err)

	ed, err := submission.NewEdition(submission.KindElectronic, submission.AudienceVendor)
	require.NoError(t, err)
	orch := submission.New("cli", ed, submission.Deps{Uploader: client, Submitter: client})
	require.NoError(t, orch.Update(func(d *submission.Draft) error {
		*d = electronicDraft()
		return nil
	}))

	state, err := orch.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, submission.PhaseSucceeded, state.Phase, state.Error)
	assert.Equal(t, "Foo", state.BookName)

	list, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "vendor-7", list[0].OwnerID)
	assert.NotEmpty(t, list[0].ElectronicBookID)
}

func TestUploadRejectedTypeCarriesServerMessage(t *testing.T) {
	srv, _ := newServer(t, "dev")
	client, err := New(Options{BaseURL: srv.URL, UserID: "admin-1", Role: "admin"})
	require.NoError(t, err)

	res := client.Upload(context.Background(), submission.Attachment{FileName: "notes.txt", Data: []byte("plain text")}, submission.AssetImage)
	assert.False(t, res.OK)

	var apiErr *APIError
	require.True(t, errors.As(res.Err, &apiErr))
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.Status)
	assert.Equal(t, "unsupported_type", apiErr.Code)
	assert.Contains(t, apiErr.UserMessage(), "images must be")
}

func TestSubmitValidationErrorBecomesAPIError(t *testing.T) {
	srv, _ := newServer(t, "dev")
	client, err := New(Options{BaseURL: srv.URL, UserID: "admin-1", Role: "admin"})
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), submission.KindPaper, submission.CatalogRecord{BookName: "Only a name"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid book", apiErr.UserMessage())
}

func TestBearerTokenAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	srv, _ := newServer(t, "production")

	token, err := auth.SignJWT(auth.Claims{Sub: "admin-9", Role: auth.RoleAdmin})
	require.NoError(t, err)

	client, err := New(Options{BaseURL: srv.URL, Token: token})
	require.NoError(t, err)
	res := client.Upload(context.Background(), submission.Attachment{FileName: "a.png", Data: assettest.PNG("a")}, submission.AssetImage)
	require.True(t, res.OK, "%v", res.Err)
	assert.NotEmpty(t, res.ID)

	anonymous, err := New(Options{BaseURL: srv.URL, UserID: "admin-9", Role: "admin"})
	require.NoError(t, err)
	res = anonymous.Upload(context.Background(), submission.Attachment{FileName: "a.png", Data: assettest.PNG("a")}, submission.AssetImage)
	var apiErr *APIError
	require.True(t, errors.As(res.Err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
