package metrics

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/models"
)

func TestUpdateCollectionMetrics(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	manufacturer := models.Manufacturer{Name: "Nintendo"}
	require.NoError(t, db.Create(&manufacturer).Error)
	console := models.Console{Name: "Game Boy", NameLower: "game boy", ManufacturerID: manufacturer.ID}
	require.NoError(t, db.Create(&console).Error)
	item := models.Item{Kind: models.ItemKindGame}
	require.NoError(t, db.Create(&item).Error)
	game := models.Game{ID: item.ID, ConsoleID: console.ID, Title: "Tetris", Region: "PAL", Currency: "EUR"}
	require.NoError(t, db.Create(&game).Error)

	// Held copies sum purchase quantities; sales do not count.
	require.NoError(t, db.Create(&models.Transaction{
		UserID: user.ID, GameID: game.ID, TransactionType: models.TransactionTypePurchase,
		Quantity: 3, Price: 10, TransactionDate: "2024-01-02", ConditionID: models.ConditionLoose,
	}).Error)
	require.NoError(t, db.Create(&models.Transaction{
		UserID: user.ID, GameID: game.ID, TransactionType: models.TransactionTypeSale,
		Quantity: 1, Price: 12, TransactionDate: "2024-02-02", ConditionID: models.ConditionLoose,
	}).Error)

	UpdateCollectionMetrics(db)

	assert.Equal(t, 3.0, testutil.ToFloat64(CollectionItemsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(GameDatabaseSize))
}
