package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/api/middleware"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/metrics"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

// Maximum quantity allowed per collection entry
const maxQuantity = 9999

// CollectionHandler manages the caller's purchase records and exposes the
// valuation series over them.
type CollectionHandler struct {
	valuation *services.ValuationService
}

func NewCollectionHandler(valuation *services.ValuationService) *CollectionHandler {
	return &CollectionHandler{valuation: valuation}
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var transactions []models.Transaction
	err := database.GetDB().
		Preload("Game").Preload("Game.Console").
		Where("user_id = ? AND transaction_type = ?", claims.UserID, models.TransactionTypePurchase).
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		logger.Error("failed to load collection", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	entries := make([]models.CollectionEntry, 0, len(transactions))
	for _, t := range transactions {
		entry := models.CollectionEntry{
			TransactionID: t.ID,
			GameID:        t.GameID,
			PurchaseDate:  t.TransactionDate,
			PurchasePrice: t.Price,
			Conditions:    t.Conditions,
			ConditionID:   t.ConditionID,
			Description:   t.Description,
			Quantity:      t.Quantity,
		}
		if t.Game != nil {
			entry.ItemTitle = t.Game.Title
			entry.CoverURL = t.Game.CoverURL
			entry.CIBAvgPrice = t.Game.CIBAvgPrice
			entry.LooseAvgPrice = t.Game.LooseAvgPrice
			entry.NewAvgPrice = t.Game.NewAvgPrice
			entry.EstimatedValue = t.Game.ValuationPrice(t.ConditionID) * float64(t.Quantity)
			if t.Game.Console != nil {
				entry.ConsoleName = t.Game.Console.Name
			}
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, entries)
}

func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var req models.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Quantity > maxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity exceeds maximum allowed (9999)"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.PurchaseDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be a YYYY-MM-DD date"})
		return
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, req.GameID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game not found"})
		return
	}

	conditionID := req.ConditionID
	if conditionID == 0 {
		conditionID = models.ConditionLoose
	}

	transaction := models.Transaction{
		UserID:          claims.UserID,
		GameID:          req.GameID,
		ConsoleID:       req.ConsoleID,
		TransactionType: models.TransactionTypePurchase,
		Quantity:        req.Quantity,
		Price:           *req.PurchasePrice,
		TransactionDate: req.PurchaseDate,
		ConditionID:     conditionID,
		Conditions:      strings.Join(req.Conditions, ","),
		Description:     req.Description,
	}
	if err := db.Create(&transaction).Error; err != nil {
		logger.Error("failed to create transaction", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.UpdateCollectionMetrics(db)
	db.Preload("Game").First(&transaction, transaction.ID)
	c.JSON(http.StatusCreated, transaction)
}

func (h *CollectionHandler) UpdateCollectionEntry(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var transaction models.Transaction
	err := db.Where("id = ? AND user_id = ?", id, claims.UserID).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		logger.Error("failed to load transaction", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if req.Quantity != nil {
		if *req.Quantity < 1 || *req.Quantity > maxQuantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be between 1 and 9999"})
			return
		}
		transaction.Quantity = *req.Quantity
	}
	if req.GameID != nil {
		var game models.Game
		if err := db.First(&game, *req.GameID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game not found"})
			return
		}
		transaction.GameID = *req.GameID
	}
	if req.ConsoleID != nil {
		transaction.ConsoleID = req.ConsoleID
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
			return
		}
		transaction.Price = *req.PurchasePrice
	}
	if req.PurchaseDate != nil {
		if _, err := time.Parse("2006-01-02", *req.PurchaseDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be a YYYY-MM-DD date"})
			return
		}
		transaction.TransactionDate = *req.PurchaseDate
	}
	if req.ConditionID != nil {
		transaction.ConditionID = *req.ConditionID
	}
	if req.Conditions != nil {
		transaction.Conditions = strings.Join(*req.Conditions, ",")
	}
	if req.Description != nil {
		transaction.Description = *req.Description
	}

	if err := db.Save(&transaction).Error; err != nil {
		logger.Error("failed to update transaction", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.UpdateCollectionMetrics(db)
	db.Preload("Game").First(&transaction, transaction.ID)
	c.JSON(http.StatusOK, transaction)
}

func (h *CollectionHandler) DeleteCollectionEntry(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	result := db.
		Where("id = ? AND user_id = ?", id, claims.UserID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		logger.Error("failed to delete transaction", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetMetrics returns the daily cumulative valuation series for the caller's
// collection over ?start_date=...&end_date=... . Never cached: totals move
// whenever a purchase is recorded.
func (h *CollectionHandler) GetMetrics(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	series, err := h.valuation.ComputeMetrics(
		c.Request.Context(),
		claims.UserID,
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, series)
}
