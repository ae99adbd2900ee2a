package profiles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/media"
	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.list)
	rg.POST("/profile", h.create)
	rg.GET("/profile/:id", h.get)
	rg.PUT("/profile/:id", h.update)
	rg.DELETE("/profile/:id", h.delete)
	rg.POST("/profile/:id/upload", h.upload)
}

func (h *Handler) list(c *gin.Context) {
	limit := 50
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]ProfileResponse, 0, len(items))
	for _, p := range items {
		friends, err := h.Svc.FriendsOf(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		resp = append(resp, withFriends(toResponse(p), friends))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.toProfile())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toResponse(p))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ProfileIDKey, id)
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	friends, err := h.Svc.FriendsOf(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, withFriends(toResponse(p), friends))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ProfileIDKey, id)
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.toChanges())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ProfileIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) upload(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ProfileIDKey, id)
	if _, err := h.Svc.Get(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	file, name, err := media.FormFile(c, h.Svc.Media.MaxBytes, "image", "profile")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			media.UploadError(c, err)
			return
		}
		respond.BadRequest(c, "image file is required")
		return
	}
	defer file.Close()

	p, err := h.Svc.UploadImage(c.Request.Context(), id, name, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(p))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmptyFile):
		media.UploadError(c, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process profile", nil)
	}
}
