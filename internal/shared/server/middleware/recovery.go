package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/shared/server/respond"
	"bookstore-admin/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. If the handler already
// started writing, the connection is left as is and only the log is emitted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"form_id":    c.GetString(FormIDKey),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"error":      rec,
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Internal(c, "Something went wrong !")
			c.Abort()
		}()
		c.Next()
	}
}
