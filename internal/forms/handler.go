package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/queue"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/server/respond"
	"bookstore-admin/internal/submission"
)

// DefaultMaxAttachmentBytes caps one attachment held by a form.
const DefaultMaxAttachmentBytes int64 = 50 << 20

// Handler exposes form sessions over HTTP.
type Handler struct {
	Store              *Store
	MaxAttachmentBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(store *Store, maxAttachmentBytes int64) *Handler {
	if maxAttachmentBytes <= 0 {
		maxAttachmentBytes = DefaultMaxAttachmentBytes
	}
	return &Handler{Store: store, MaxAttachmentBytes: maxAttachmentBytes}
}

// RegisterRoutes attaches form routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/forms", h.create)
	rg.GET("/forms/:id", h.withSession(h.get))
	rg.DELETE("/forms/:id", h.remove)
	rg.PATCH("/forms/:id/fields", h.withSession(h.updateFields))
	rg.PUT("/forms/:id/attachments/:slot", h.withSession(h.attach))
	rg.DELETE("/forms/:id/attachments/:slot", h.withSession(h.detach))
	rg.DELETE("/forms/:id/attachments", h.withSession(h.clearAttachments))
	rg.POST("/forms/:id/submit", h.withSession(h.submit))
	rg.POST("/forms/:id/dismiss", h.withSession(h.dismiss))
	rg.POST("/forms/:id/reset", h.withSession(h.reset))
}

type createRequest struct {
	Edition  string `json:"edition" binding:"required"`
	Audience string `json:"audience" binding:"required"`
}

// AttachmentSummary describes a filled slot without its bytes.
type AttachmentSummary struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	SizeBytes   int    `json:"sizeBytes"`
}

// SessionResponse is the full picture of a form.
type SessionResponse struct {
	ID          string                                `json:"id"`
	Edition     submission.EditionKind                `json:"edition"`
	Audience    submission.Audience                   `json:"audience"`
	Draft       submission.Draft                      `json:"draft"`
	Slots       []submission.Slot                     `json:"slots"`
	Attachments map[submission.Slot]*AttachmentSummary `json:"attachments"`
	State       submission.State                      `json:"state"`
	View        submission.View                       `json:"view"`
}

func toSessionResponse(sess *Session) SessionResponse {
	ed := sess.Orchestrator.Edition()
	draft := sess.Orchestrator.Draft()

	attachments := make(map[submission.Slot]*AttachmentSummary, len(ed.Slots))
	for _, slot := range ed.Slots {
		att, ok := draft.Attachments[slot]
		if !ok || att.Empty() {
			attachments[slot] = nil
			continue
		}
		attachments[slot] = &AttachmentSummary{
			FileName:    att.FileName,
			ContentType: att.ContentType,
			SizeBytes:   len(att.Data),
		}
	}

	return SessionResponse{
		ID:          sess.ID,
		Edition:     ed.Kind,
		Audience:    ed.Audience,
		Draft:       draft,
		Slots:       ed.Slots,
		Attachments: attachments,
		State:       sess.Orchestrator.State(),
		View:        sess.View.View(),
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "edition and audience are required", nil)
		return
	}

	sess, err := h.Store.Create(
		middleware.UserIDFromContext(c),
		middleware.RoleFromContext(c),
		submission.EditionKind(req.Edition),
		submission.Audience(req.Audience),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.FormIDKey, sess.ID)
	respond.Created(c, toSessionResponse(sess))
}

func (h *Handler) withSession(next func(*gin.Context, *Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		formID := c.Param("id")
		c.Set(middleware.FormIDKey, formID)

		sess, err := h.Store.Get(formID, middleware.UserIDFromContext(c))
		if err != nil {
			writeError(c, err)
			return
		}
		next(c, sess)
	}
}

func (h *Handler) get(c *gin.Context, sess *Session) {
	respond.OK(c, toSessionResponse(sess))
}

func (h *Handler) remove(c *gin.Context) {
	formID := c.Param("id")
	c.Set(middleware.FormIDKey, formID)

	if err := h.Store.Delete(formID, middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateFields(c *gin.Context, sess *Session) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fields must be a JSON object", nil)
		return
	}

	values := make(map[string]string, len(raw))
	for field, msg := range raw {
		v, err := fieldText(msg)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", fmt.Sprintf("%s: %v", field, err), nil)
			return
		}
		values[field] = v
	}

	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	err := sess.Orchestrator.Update(func(d *submission.Draft) error {
		for _, f := range fields {
			if err := d.Set(f, values[f]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toSessionResponse(sess))
}

// fieldText turns a JSON scalar into the raw text a form input would hold.
func fieldText(msg json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return string(msg), nil
	default:
		return "", errors.New("must be a string, number or boolean")
	}
}

func (h *Handler) attach(c *gin.Context, sess *Session) {
	slot := submission.Slot(c.Param("slot"))
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxAttachmentBytes+(1<<20))

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
	if fileHeader.Size > h.MaxAttachmentBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is empty", nil)
		return
	}

	err = sess.Orchestrator.Attach(slot, submission.Attachment{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toSessionResponse(sess))
}

func (h *Handler) detach(c *gin.Context, sess *Session) {
	if err := sess.Orchestrator.Detach(submission.Slot(c.Param("slot"))); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toSessionResponse(sess))
}

func (h *Handler) clearAttachments(c *gin.Context, sess *Session) {
	if err := sess.Orchestrator.ClearAttachments(); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toSessionResponse(sess))
}

func (h *Handler) submit(c *gin.Context, sess *Session) {
	// the attempt outlives the request; keep its values, drop its cancellation.
	ctx := context.WithoutCancel(c.Request.Context())
	ctx = queue.WithRequestID(ctx, middleware.RequestIDFromContext(c))

	if _, err := sess.Orchestrator.SubmitAsync(ctx); err != nil {
		writeError(c, err)
		return
	}
	respond.Accepted(c, toSessionResponse(sess))
}

func (h *Handler) dismiss(c *gin.Context, sess *Session) {
	sess.View.Dismiss()
	respond.OK(c, toSessionResponse(sess))
}

func (h *Handler) reset(c *gin.Context, sess *Session) {
	if err := sess.Orchestrator.Reset(); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toSessionResponse(sess))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, submission.ErrRetired):
		respond.Error(c, http.StatusNotFound, "not_found", "form not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, submission.ErrSubmissionInFlight):
		respond.Error(c, http.StatusConflict, "in_flight", err.Error(), nil)
	case errors.Is(err, submission.ErrUnknownEdition),
		errors.Is(err, submission.ErrUnknownField),
		errors.Is(err, submission.ErrInvalidField),
		errors.Is(err, submission.ErrUnknownSlot):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Internal(c, "form operation failed")
	}
}
