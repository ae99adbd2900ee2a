package experiences

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches experience routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile/:id/experiences", h.list)
	rg.POST("/profile/:id/experiences", h.create)
	rg.GET("/profile/:id/experiences/:expId", h.get)
	rg.PUT("/profile/:id/experiences/:expId", h.update)
	rg.DELETE("/profile/:id/experiences/:expId", h.delete)
	rg.POST("/profile/:id/experiences/:expId/picture", h.picture)
}

func profileID(c *gin.Context) string {
	id := c.Param("id")
	c.Set(middleware.ProfileIDKey, id)
	return id
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), profileID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]ExperienceResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toResponse(e))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	pid := profileID(c)
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), pid, req.toExperience())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toResponse(e))
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), profileID(c), c.Param("expId"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(e))
}

func (h *Handler) update(c *gin.Context) {
	pid := profileID(c)
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	ch, err := req.toChanges()
	if err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), pid, c.Param("expId"), ch)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(e))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), profileID(c), c.Param("expId")); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) picture(c *gin.Context) {
	pid := profileID(c)
	expID := c.Param("expId")
	if _, err := h.Svc.Get(c.Request.Context(), pid, expID); err != nil {
		writeError(c, err)
		return
	}

	file, name, err := media.FormFile(c, h.Svc.Media.MaxBytes, "image", "experience", "picture")
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

	e, err := h.Svc.UploadPicture(c.Request.Context(), pid, expID, name, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(e))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "experience not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmptyFile):
		media.UploadError(c, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process experience", nil)
	}
}
