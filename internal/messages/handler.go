package messages

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches message routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/message", h.send)
	rg.GET("/message", h.list)
	rg.DELETE("/message/:id", h.delete)
}

func (h *Handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	m, err := h.Svc.Send(c.Request.Context(), req.SenderID, req.RecipientID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toResponse(m))
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	items, err := h.Svc.List(c.Request.Context(), c.Query("profileId"), c.Query("withId"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, toResponse(m))
	}
	respond.OK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "message not found", nil)
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process message", nil)
	}
}
