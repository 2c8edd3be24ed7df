package books

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/reference"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/server/respond"
	"bookstore-admin/internal/shared/validation"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches book and reference-data routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/books/paper", h.create(KindPaper))
	rg.POST("/books/electronic", h.create(KindElectronic))
	rg.GET("/books", h.list)
	rg.GET("/books/:id", h.get)
	rg.GET("/genres", h.genres)
	rg.GET("/languages", h.languages)
}

func (h *Handler) create(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}

		userID := middleware.UserIDFromContext(c)
		var (
			book Book
			err  error
		)
		if kind == KindElectronic {
			book, err = h.Svc.CreateElectronic(c.Request.Context(), userID, req)
		} else {
			book, err = h.Svc.CreatePaper(c.Request.Context(), userID, req)
		}
		if err != nil {
			writeError(c, err, "failed to create book")
			return
		}

		c.Set(middleware.BookIDKey, book.ID)
		respond.Created(c, CreateResponse{ID: book.ID, BookName: book.BookName})
	}
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.BookIDKey, id)

	book, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch book")
		return
	}
	respond.OK(c, toResponse(book))
}

func (h *Handler) list(c *gin.Context) {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a number", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be a number", nil)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list books")
		return
	}
	out := make([]Response, 0, len(items))
	for _, b := range items {
		out = append(out, toResponse(b))
	}
	respond.OK(c, gin.H{"items": out, "limit": limit, "offset": offset})
}

func (h *Handler) genres(c *gin.Context) {
	respond.OK(c, gin.H{"items": reference.Genres()})
}

func (h *Handler) languages(c *gin.Context) {
	respond.OK(c, gin.H{"items": reference.Languages()})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, err error, fallback string) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid book", fieldErrs)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "book not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Internal(c, fallback)
	}
}
