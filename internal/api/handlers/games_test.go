package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/models"
)

// gameRouter wires the admin game endpoints without the auth middleware.
func gameRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	handler := NewGameHandler(nil)
	router := gin.New()
	router.DELETE("/api/games/:id", handler.DeleteGame)
	return router, db
}

// Deleting a game removes every row referencing it: the item, prices,
// wishlist entries, collection purchases, and change requests. A leftover
// purchase would drop out of the valuation join without a trace.
func TestDeleteGameCascades(t *testing.T) {
	router, db := gameRouter(t)
	game, _ := seedPendingChange(t, db)

	var user models.User
	require.NoError(t, db.First(&user).Error)

	require.NoError(t, db.Create(&models.Transaction{
		UserID:          user.ID,
		GameID:          game.ID,
		TransactionType: models.TransactionTypePurchase,
		Quantity:        2,
		Price:           8,
		TransactionDate: "2024-01-02",
		ConditionID:     models.ConditionLoose,
	}).Error)
	require.NoError(t, db.Create(&models.Wishlist{UserID: user.ID, GameID: game.ID}).Error)
	require.NoError(t, db.Create(&models.Price{
		GameID: game.ID, PriceType: "loose", Amount: 9.5, Currency: "EUR", RecordedAt: time.Now(),
	}).Error)

	w := doRequest(router, http.MethodDelete, fmt.Sprintf("/api/games/%d", game.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	db.Model(&models.Game{}).Where("id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "game row survived")
	db.Model(&models.Item{}).Where("id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "item row survived")
	db.Model(&models.Transaction{}).Where("game_id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "transactions survived")
	db.Model(&models.ItemChange{}).Where("item_id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "change requests survived")
	db.Model(&models.Wishlist{}).Where("game_id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "wishlist entries survived")
	db.Model(&models.Price{}).Where("game_id = ?", game.ID).Count(&n)
	assert.Zero(t, n, "price history survived")
}

func TestDeleteGameNotFound(t *testing.T) {
	router, _ := gameRouter(t)

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodDelete, "/api/games/999", nil).Code)
}
