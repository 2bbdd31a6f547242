package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

func metricsRouter(t *testing.T) (*gin.Engine, *gorm.DB, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	handler := NewCollectionHandler(services.NewValuationService(db))

	// Inject claims directly instead of running the full token middleware.
	router := gin.New()
	inject := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("auth_claims", &auth.Claims{UserID: user.ID, Username: user.Username})
			h(c)
		}
	}
	router.GET("/api/collection", inject(handler.GetCollection))
	router.GET("/api/collection/metrics", inject(handler.GetMetrics))
	return router, db, user
}

func seedCollectionGame(t *testing.T, db *gorm.DB) models.Game {
	t.Helper()

	manufacturer := models.Manufacturer{Name: "Nintendo"}
	require.NoError(t, db.Create(&manufacturer).Error)
	console := models.Console{Name: "Game Boy", NameLower: "game boy", ManufacturerID: manufacturer.ID}
	require.NoError(t, db.Create(&console).Error)
	item := models.Item{Kind: models.ItemKindGame}
	require.NoError(t, db.Create(&item).Error)
	game := models.Game{
		ID: item.ID, ConsoleID: console.ID, Title: "Tetris", Region: "PAL",
		LooseAvgPrice: 10, CIBAvgPrice: 25, NewAvgPrice: 60, Currency: "EUR",
	}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func TestGetMetricsEndpoint(t *testing.T) {
	router, db, user := metricsRouter(t)

	game := seedCollectionGame(t, db)
	require.NoError(t, db.Create(&models.Transaction{
		UserID:          user.ID,
		GameID:          game.ID,
		TransactionType: models.TransactionTypePurchase,
		Quantity:        1,
		Price:           8,
		TransactionDate: "2024-01-02",
		ConditionID:     models.ConditionLoose,
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/collection/metrics?start_date=2024-01-01&end_date=2024-01-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `"date":"2024-01-01"`)
	assert.Contains(t, w.Body.String(), `"total_value":10`)
}

// Each collection entry carries its current worth: the condition-matched
// average price times the quantity held.
func TestGetCollectionEstimatedValue(t *testing.T) {
	router, db, user := metricsRouter(t)

	game := seedCollectionGame(t, db)
	require.NoError(t, db.Create(&models.Transaction{
		UserID:          user.ID,
		GameID:          game.ID,
		TransactionType: models.TransactionTypePurchase,
		Quantity:        2,
		Price:           30,
		TransactionDate: "2024-01-02",
		ConditionID:     models.ConditionCIB,
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/collection", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.CollectionEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 50.0, entries[0].EstimatedValue)
	assert.Equal(t, "Tetris", entries[0].ItemTitle)
	assert.Equal(t, "Game Boy", entries[0].ConsoleName)
}

func TestGetMetricsEndpointBadRange(t *testing.T) {
	router, _, _ := metricsRouter(t)

	for _, query := range []string{
		"",
		"start_date=2024-01-01",
		"start_date=bogus&end_date=2024-01-03",
		"start_date=2024-01-05&end_date=2024-01-01",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/collection/metrics?"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}
