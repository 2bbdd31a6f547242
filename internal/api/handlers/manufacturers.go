package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

type ManufacturerHandler struct {
	imageStorage *services.ImageStorageService
}

func NewManufacturerHandler(imageStorage *services.ImageStorageService) *ManufacturerHandler {
	return &ManufacturerHandler{imageStorage: imageStorage}
}

func (h *ManufacturerHandler) ListManufacturers(c *gin.Context) {
	var manufacturers []models.Manufacturer
	if err := database.GetDB().Order("name ASC").Find(&manufacturers).Error; err != nil {
		logger.Error("failed to list manufacturers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, manufacturers)
}

type manufacturerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ManufacturerHandler) CreateManufacturer(c *gin.Context) {
	var req manufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.Manufacturer{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "manufacturer already exists"})
		return
	}

	manufacturer := models.Manufacturer{Name: req.Name}
	if err := db.Create(&manufacturer).Error; err != nil {
		logger.Error("failed to create manufacturer", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, manufacturer)
}

func (h *ManufacturerHandler) DeleteManufacturer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var consoleCount int64
	db.Model(&models.Console{}).Where("manufacturer_id = ?", id).Count(&consoleCount)
	if consoleCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "manufacturer still has consoles"})
		return
	}

	result := db.Delete(&models.Manufacturer{}, id)
	if result.Error != nil {
		logger.Error("failed to delete manufacturer", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "manufacturer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// UploadManufacturerImage stores a brand image. Admin only.
func (h *ManufacturerHandler) UploadManufacturerImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var manufacturer models.Manufacturer
	if err := db.First(&manufacturer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "manufacturer not found"})
		return
	}

	filename, ok := saveUploadedImage(c, h.imageStorage, "image")
	if !ok {
		return
	}

	manufacturer.ImageURL = filename
	if err := db.Save(&manufacturer).Error; err != nil {
		logger.Error("failed to update manufacturer image", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": filename})
}
