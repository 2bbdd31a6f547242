package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
)

// LookupHandler serves the small reference tables used by catalog forms.
type LookupHandler struct{}

func NewLookupHandler() *LookupHandler {
	return &LookupHandler{}
}

func (h *LookupHandler) ListGenres(c *gin.Context) {
	var genres []models.Genre
	if err := database.GetDB().Order("name ASC").Find(&genres).Error; err != nil {
		logger.Error("failed to list genres", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (h *LookupHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.GetDB().Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("failed to list categories", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *LookupHandler) ListEditions(c *gin.Context) {
	var editions []models.Edition
	if err := database.GetDB().Order("name ASC").Find(&editions).Error; err != nil {
		logger.Error("failed to list editions", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, editions)
}
