package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/id"
)

// RequestIDHeader carries the correlation id in and out.
const RequestIDHeader = "X-Request-Id"

const (
	requestIDKey      = "requestId"
	maxRequestIDBytes = 128
)

// RequestID reuses a well-formed inbound X-Request-Id or mints a new one,
// then echoes it on the response. Orphan notices carry the same id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if !validRequestID(rid) {
			rid = newRequestID()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDBytes {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}

func newRequestID() string {
	rid, err := id.Generate("req")
	if err != nil {
		return "req-" + time.Now().UTC().Format("20060102150405.000000000")
	}
	return rid
}
