package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retroshelf/retroshelf/internal/services"
)

// AdminHandler is the decision side of change requests. All routes sit
// behind RequireAdmin.
type AdminHandler struct {
	changes *services.ChangeService
}

func NewAdminHandler(changes *services.ChangeService) *AdminHandler {
	return &AdminHandler{changes: changes}
}

func (h *AdminHandler) ListPendingChanges(c *gin.Context) {
	views, err := h.changes.ListPending(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) GetChange(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.changes.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AdminHandler) ApproveChange(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.changes.Approve(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "change approved and applied"})
}

func (h *AdminHandler) RejectChange(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.changes.Reject(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "change rejected"})
}

func (h *AdminHandler) DeleteChange(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.changes.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
