package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/server/respond"
	"profile-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
// http.ErrAbortHandler is re-raised so net/http drops the connection; handlers
// use it to signal a stream that failed after its first byte.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			reqID := RequestIDFromContext(c)
			telemetry.Error("panic", map[string]any{
				"request_id": reqID,
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
