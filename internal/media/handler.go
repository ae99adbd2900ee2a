package media

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/server/respond"
	"profile-backend/internal/shared/telemetry"
)

// Handler serves stored media.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches media routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/media/*key", h.get)
}

func (h *Handler) get(c *gin.Context) {
	contentType, body, err := h.Svc.Open(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "media not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read media", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		telemetry.Warn("media.copy_failed", map[string]any{"key": c.Param("key"), "error": err.Error()})
	}
}

// UploadError maps an upload failure to an HTTP error response.
func UploadError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, ErrTooLarge), errors.As(err, &maxErr):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "only image uploads are accepted", nil)
	case errors.Is(err, ErrEmptyFile):
		respond.BadRequest(c, "file is empty")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
	}
}

// FormFile opens the first present multipart field among names. The request
// body is capped slightly above maxBytes to leave room for multipart framing.
func FormFile(c *gin.Context, maxBytes int64, names ...string) (io.ReadCloser, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)
	var lastErr error
	for _, name := range names {
		fh, err := c.FormFile(name)
		if err != nil {
			lastErr = err
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		return f, fh.Filename, nil
	}
	return nil, "", lastErr
}

const formOverhead = 64 << 10
