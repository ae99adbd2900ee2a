package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	ProfileIDKey   = "profileId"
	ExportBytesKey = "exportBytes"
	ExportErrorKey = "exportError"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		aborted := true
		defer func() {
			// A handler that panics with http.ErrAbortHandler skips the normal
			// path; log it before the panic reaches net/http.
			if aborted {
				fields := requestFields(c, time.Since(start))
				fields["aborted"] = true
				telemetry.Warn("request.aborted", fields)
			}
		}()
		c.Next()
		aborted = false

		telemetry.Info("request.complete", requestFields(c, time.Since(start)))
	}
}

func requestFields(c *gin.Context, latency time.Duration) map[string]any {
	fields := map[string]any{
		"request_id":  RequestIDFromContext(c),
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"route":       c.FullPath(),
		"status":      c.Writer.Status(),
		"bytes":       c.Writer.Size(),
		"duration_ms": float64(latency.Microseconds()) / 1000.0,
		"client_ip":   c.ClientIP(),
		"user_agent":  c.Request.UserAgent(),
	}
	if profileID, ok := c.Get(ProfileIDKey); ok {
		fields["profile_id"] = profileID
	}
	if n, ok := c.Get(ExportBytesKey); ok {
		fields["export_bytes"] = n
	}
	if exportErr := c.GetString(ExportErrorKey); exportErr != "" {
		fields["export_error"] = exportErr
	}
	return fields
}
