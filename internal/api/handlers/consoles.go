package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

// ConsoleHandler serves platform browsing plus the admin CRUD for consoles
// and manufacturers.
type ConsoleHandler struct {
	imageStorage *services.ImageStorageService
}

func NewConsoleHandler(imageStorage *services.ImageStorageService) *ConsoleHandler {
	return &ConsoleHandler{imageStorage: imageStorage}
}

func (h *ConsoleHandler) ListConsoles(c *gin.Context) {
	db := database.GetDB()

	query := db.Model(&models.Console{}).Preload("Manufacturer")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("name_lower LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if manufacturerID := c.Query("manufacturer_id"); manufacturerID != "" {
		query = query.Where("manufacturer_id = ?", manufacturerID)
	}

	var consoles []models.Console
	if err := query.Order("name ASC").Find(&consoles).Error; err != nil {
		logger.Error("failed to list consoles", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, consoles)
}

func (h *ConsoleHandler) GetConsole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var console models.Console
	err := database.GetDB().Preload("Manufacturer").First(&console, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "console not found"})
			return
		}
		logger.Error("failed to load console", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, console)
}

type consoleRequest struct {
	Name           string `json:"name" binding:"required"`
	ManufacturerID uint   `json:"manufacturer_id" binding:"required"`
}

func (h *ConsoleHandler) CreateConsole(c *gin.Context) {
	var req consoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var manufacturer models.Manufacturer
	if err := db.First(&manufacturer, req.ManufacturerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manufacturer not found"})
		return
	}

	console := models.Console{
		Name:           req.Name,
		NameLower:      strings.ToLower(req.Name),
		ManufacturerID: req.ManufacturerID,
	}
	if err := db.Create(&console).Error; err != nil {
		logger.Error("failed to create console", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, console)
}

func (h *ConsoleHandler) UpdateConsole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req consoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var console models.Console
	if err := db.First(&console, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "console not found"})
		return
	}

	console.Name = req.Name
	console.NameLower = strings.ToLower(req.Name)
	console.ManufacturerID = req.ManufacturerID
	if err := db.Save(&console).Error; err != nil {
		logger.Error("failed to update console", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, console)
}

func (h *ConsoleHandler) DeleteConsole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var gameCount int64
	db.Model(&models.Game{}).Where("console_id = ?", id).Count(&gameCount)
	if gameCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "console still has games"})
		return
	}

	result := db.Delete(&models.Console{}, id)
	if result.Error != nil {
		logger.Error("failed to delete console", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "console not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// UploadConsoleImage stores a platform image. Admin only.
func (h *ConsoleHandler) UploadConsoleImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var console models.Console
	if err := db.First(&console, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "console not found"})
		return
	}

	filename, ok := saveUploadedImage(c, h.imageStorage, "image")
	if !ok {
		return
	}

	console.ImageURL = filename
	if err := db.Save(&console).Error; err != nil {
		logger.Error("failed to update console image", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": filename})
}
