package export

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/server/respond"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/profiledoc/render"
)

// statusClientClosedRequest is logged when the client left before any byte
// of the document was written.
const statusClientClosedRequest = 499

// Handler serves profile document downloads.
type Handler struct {
	Pipeline *Pipeline
}

// NewHandler constructs a Handler.
func NewHandler(p *Pipeline) *Handler {
	return &Handler{Pipeline: p}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile/:id/pdf", h.download)
	rg.GET("/profile/:id/downloadPDF", h.download)
}

// download streams the profile document. Failures before the first byte get
// a JSON error. Once streaming has started the status is already sent, so a
// failure aborts the connection and the client sees a truncated response.
func (h *Handler) download(c *gin.Context) {
	profileID := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.ProfileIDKey, profileID)
	if profileID == "" {
		respond.BadRequest(c, "profile id is required")
		return
	}

	dst := &responseDestination{c: c}
	res, err := h.Pipeline.Export(c.Request.Context(), profileID, dst)
	c.Set(middleware.ExportBytesKey, res.Bytes)
	if err == nil {
		telemetry.Info("export.complete", map[string]any{
			"request_id":  middleware.RequestIDFromContext(c),
			"profile_id":  profileID,
			"bytes":       res.Bytes,
			"experiences": res.Experiences,
			"duration_ms": float64(res.Duration.Microseconds()) / 1000.0,
		})
		return
	}

	c.Set(middleware.ExportErrorKey, err.Error())
	if c.Writer.Written() {
		telemetry.Warn("export.stream_aborted", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"profile_id": profileID,
			"bytes":      res.Bytes,
			"error":      err.Error(),
		})
		panic(http.ErrAbortHandler)
	}

	dst.reset()
	writeExportError(c, err)
}

func writeExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	case errors.Is(err, ErrUpstreamTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "upstream_timeout", "timed out fetching profile data", nil)
	case errors.Is(err, ErrImageUnavailable):
		respond.Error(c, http.StatusBadGateway, "image_unavailable", "profile image could not be retrieved", nil)
	case errors.Is(err, ErrImageTooLarge):
		respond.Error(c, http.StatusUnprocessableEntity, "image_too_large", "profile image is too large", nil)
	case errors.Is(err, ErrImageDecode):
		respond.Error(c, http.StatusUnprocessableEntity, "image_decode_error", "profile image could not be decoded", nil)
	case errors.Is(err, ErrIncompleteProfile):
		respond.Error(c, http.StatusUnprocessableEntity, "incomplete_profile", err.Error(), nil)
	case errors.Is(err, ErrStreamAborted):
		telemetry.Warn("export.client_gone", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export profile", nil)
	}
}

// responseDestination adapts the gin response writer to render.Destination.
type responseDestination struct {
	c *gin.Context
}

func (d *responseDestination) Begin(meta render.Metadata) error {
	h := d.c.Writer.Header()
	h.Set("Content-Type", meta.ContentType)
	h.Set("Content-Disposition", meta.ContentDisposition())
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	return nil
}

func (d *responseDestination) Write(p []byte) (int, error) {
	return d.c.Writer.Write(p)
}

// Flush pushes the chunk to the client and reports a disconnected client.
func (d *responseDestination) Flush() error {
	d.c.Writer.Flush()
	return d.c.Request.Context().Err()
}

// reset drops document headers set by Begin so an error response does not
// advertise an attachment.
func (d *responseDestination) reset() {
	h := d.c.Writer.Header()
	h.Del("Content-Disposition")
	h.Del("Content-Type")
	h.Del("Cache-Control")
	h.Del("X-Content-Type-Options")
}
