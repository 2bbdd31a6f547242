package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retroshelf/retroshelf/internal/api/middleware"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
)

type WishlistHandler struct{}

func NewWishlistHandler() *WishlistHandler {
	return &WishlistHandler{}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var rows []models.Wishlist
	err := database.GetDB().
		Preload("Game").Preload("Game.Console").
		Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		logger.Error("failed to load wishlist", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	entries := make([]models.WishlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.WishlistEntry{
			ID:      row.ID,
			Game:    row.Game,
			AddedAt: row.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, entries)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, req.GameID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game not found"})
		return
	}

	var count int64
	db.Model(&models.Wishlist{}).
		Where("user_id = ? AND game_id = ?", claims.UserID, req.GameID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "game already on wishlist"})
		return
	}

	row := models.Wishlist{UserID: claims.UserID, GameID: req.GameID}
	if err := db.Create(&row).Error; err != nil {
		logger.Error("failed to add wishlist entry", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := database.GetDB().
		Where("id = ? AND user_id = ?", id, claims.UserID).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		logger.Error("failed to remove wishlist entry", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
