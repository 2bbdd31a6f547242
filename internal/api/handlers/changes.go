package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retroshelf/retroshelf/internal/api/middleware"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

// ChangeHandler is the user-facing side of change requests: any
// authenticated user may propose an edit to a catalog item.
type ChangeHandler struct {
	changes *services.ChangeService
}

func NewChangeHandler(changes *services.ChangeService) *ChangeHandler {
	return &ChangeHandler{changes: changes}
}

func (h *ChangeHandler) ProposeChange(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.ProposeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.changes.Propose(c.Request.Context(), claims.UserID, itemID, req.Changes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, change)
}
