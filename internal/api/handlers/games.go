package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/metrics"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GameHandler serves the game catalog: browse, search, detail, price
// history, and the admin-only direct mutations. Regular users edit games
// through change proposals instead.
type GameHandler struct {
	imageStorage *services.ImageStorageService
}

func NewGameHandler(imageStorage *services.ImageStorageService) *GameHandler {
	return &GameHandler{imageStorage: imageStorage}
}

func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var game models.Game
	err := database.GetDB().Preload("Console").Preload("Console.Manufacturer").First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		logger.Error("failed to load game", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, game)
}

// SearchGames filters the catalog by free-text title plus optional console,
// genre and publisher narrowing, paginated.
func (h *GameHandler) SearchGames(c *gin.Context) {
	db := database.GetDB()

	query := db.Model(&models.Game{}).Preload("Console")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("LOWER(games.title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if consoleID := c.Query("console_id"); consoleID != "" {
		query = query.Where("games.console_id = ?", consoleID)
	}
	if genreID := c.Query("genre_id"); genreID != "" {
		query = query.Where("games.genre_id = ?", genreID)
	}
	if publisher := strings.TrimSpace(c.Query("publisher")); publisher != "" {
		query = query.Where("LOWER(games.publisher) LIKE ?", "%"+strings.ToLower(publisher)+"%")
	}

	page, pageSize := pagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("failed to count games", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var games []models.Game
	err := query.Order("games.title ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&games).Error
	if err != nil {
		logger.Error("failed to search games", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.GameSearchResult{
		TotalItems:  total,
		TotalPages:  totalPages(total, pageSize),
		CurrentPage: page,
		Items:       games,
	})
}

// ListByConsole returns a console's games, optionally narrowed to titles
// starting with a letter ("0" groups the digits), sorted by title or price.
func (h *GameHandler) ListByConsole(c *gin.Context) {
	consoleID, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var console models.Console
	if err := db.First(&console, consoleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "console not found"})
		return
	}

	query := db.Model(&models.Game{}).Where("console_id = ?", consoleID)

	if letter := c.Query("letter"); letter != "" {
		if letter == "0" {
			query = query.Where("substr(title, 1, 1) BETWEEN '0' AND '9'")
		} else {
			query = query.Where("LOWER(title) LIKE ?", strings.ToLower(letter)+"%")
		}
	}

	switch c.DefaultQuery("sort", "title") {
	case "price_asc":
		query = query.Order("cib_avg_price ASC")
	case "price_desc":
		query = query.Order("cib_avg_price DESC")
	default:
		query = query.Order("title ASC")
	}

	page, pageSize := pagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("failed to count games", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var games []models.GameListEntry
	err := query.Select("id, title, cover_url, cib_avg_price, loose_avg_price").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&games).Error
	if err != nil {
		logger.Error("failed to list games", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"console":     console,
		"totalItems":  total,
		"totalPages":  totalPages(total, pageSize),
		"currentPage": page,
		"items":       games,
	})
}

// GetPriceHistory returns the recorded price points for a game, newest
// first.
func (h *GameHandler) GetPriceHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var prices []models.Price
	err := database.GetDB().
		Where("game_id = ?", id).
		Order("recorded_at DESC").
		Find(&prices).Error
	if err != nil {
		logger.Error("failed to load price history", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, prices)
}

type createGameRequest struct {
	ConsoleID uint           `json:"console_id" binding:"required"`
	Title     string         `json:"title" binding:"required"`
	Region    string         `json:"region" binding:"required"`
	Fields    map[string]any `json:"fields"`
}

// CreateGame inserts the abstract item row and its game payload together.
// Optional fields beyond the required trio travel in "fields" and go through
// the shared allow-list. Admin only.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var console models.Console
	if err := db.First(&console, req.ConsoleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "console not found"})
		return
	}

	game, err := services.CreateGame(c.Request.Context(), db, req.ConsoleID, req.Title, req.Region, req.Fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusCreated, game)
}

// UpdateGame applies a direct field update. Admin only; the same allow-list
// as change-request approval governs which fields may move.
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	game, err := services.ApplyGameUpdate(c.Request.Context(), database.GetDB(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// DeleteGame removes a game, its item row, and dependents. Admin only.
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Game{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return services.ErrNotFound
		}
		// The shared-pk item row and dependents go with it. Collection
		// entries too: an orphaned purchase would silently drop out of
		// the valuation join.
		if err := tx.Where("game_id = ?", id).Delete(&models.Price{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemChange{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, id).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	metrics.UpdateCollectionMetrics(db)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// UploadCover stores a cover image and points the game at it. Admin only.
func (h *GameHandler) UploadCover(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	filename, ok := saveUploadedImage(c, h.imageStorage, "image")
	if !ok {
		return
	}

	game.CoverURL = filename
	if err := db.Save(&game).Error; err != nil {
		logger.Error("failed to update cover", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cover_url": filename})
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
