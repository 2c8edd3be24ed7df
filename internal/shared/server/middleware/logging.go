package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/telemetry"
)

// Context keys handlers set so the request log can carry them.
const (
	FormIDKey           = "formId"
	BookIDKey           = "bookId"
	AssetIDKey          = "assetId"
	StatusTransitionKey = "statusTransition"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": c.GetString(StatusTransitionKey),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           UserIDFromContext(c),
			"role":              string(RoleFromContext(c)),
			"form_id":           c.GetString(FormIDKey),
			"book_id":           c.GetString(BookIDKey),
			"asset_id":          c.GetString(AssetIDKey),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
