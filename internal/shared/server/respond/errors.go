package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/telemetry"
)

// CodeInternal is the error code of every 5xx envelope.
const CodeInternal = "internal_error"

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	for key, field := range map[string]string{"userId": "user_id", "role": "role", "formId": "form_id", "bookId": "book_id"} {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Internal sends a 500 with a message safe to show the user.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternal, message, nil)
}
