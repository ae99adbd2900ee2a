package friends

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches friend routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/friend", h.request)
	rg.GET("/friend", h.list)
	rg.PUT("/friend/:id/accept", h.accept)
	rg.PUT("/friend/:id/reject", h.reject)
	rg.DELETE("/friend/:id", h.delete)
}

func (h *Handler) request(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	f, err := h.Svc.Request(c.Request.Context(), req.RequesterID, req.RecipientID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toResponse(f))
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), c.Query("profileId"), Status(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]FriendshipResponse, 0, len(items))
	for _, f := range items {
		resp = append(resp, toResponse(f))
	}
	respond.OK(c, resp)
}

func (h *Handler) accept(c *gin.Context) {
	f, err := h.Svc.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(f))
}

func (h *Handler) reject(c *gin.Context) {
	f, err := h.Svc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(f))
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
		respond.Error(c, http.StatusNotFound, "not_found", "friend request not found", nil)
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrNotPending):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process friend request", nil)
	}
}
