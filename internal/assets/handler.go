package assets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/server/respond"
)

// multipart framing on top of the largest allowed file.
const formOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches asset routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assets/images", h.upload(KindImage))
	rg.POST("/assets/documents", h.upload(KindDocument))
	rg.GET("/assets/:id", h.get)
	rg.GET("/assets/:id/content", h.content)
}

// UploadResponse is the {id, ok} confirmation plus the stored metadata.
type UploadResponse struct {
	Response
	OK bool `json:"ok"`
}

func (h *Handler) upload(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.limitFor(kind)+formOverhead)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file too large", nil)
				return
			}
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		defer file.Close()

		asset, err := h.Svc.Upload(c.Request.Context(), userID, kind, fileHeader.Filename, file)
		if err != nil {
			writeError(c, err, "failed to upload "+string(kind))
			return
		}

		c.Set(middleware.AssetIDKey, asset.ID)
		respond.Created(c, UploadResponse{Response: toResponse(asset), OK: true})
	}
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.AssetIDKey, id)

	asset, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch asset")
		return
	}
	respond.OK(c, toResponse(asset))
}

func (h *Handler) content(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.AssetIDKey, id)

	asset, body, err := h.Svc.Open(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to open asset")
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, asset.SizeBytes, asset.ContentType, body, map[string]string{
		"Cache-Control": "private, max-age=300",
	})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Internal(c, fallback)
	}
}
