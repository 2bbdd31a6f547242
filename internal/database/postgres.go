package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/retroshelf/retroshelf/internal/config"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
)

var db *gorm.DB

// Initialize connects to postgres, configures the connection pool and
// migrates the schema.
func Initialize(cfg config.DatabaseConfig, debug bool) error {
	logMode := gormlogger.Warn
	if debug {
		logMode = gormlogger.Info
	}

	var err error
	db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Info("database connected")

	if err := Migrate(db); err != nil {
		return err
	}

	logger.Info("database migration completed")
	return nil
}

// Migrate runs the schema auto-migration followed by data migrations.
// Split out from Initialize so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Manufacturer{},
		&models.Console{},
		&models.Genre{},
		&models.Category{},
		&models.Edition{},
		&models.Item{},
		&models.Game{},
		&models.Card{},
		&models.Price{},
		&models.Transaction{},
		&models.Wishlist{},
		&models.ItemChange{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return RunDataMigrations(db)
}

func GetDB() *gorm.DB {
	return db
}

// SetDB swaps the package-level handle. Used by tests to point handlers at
// their own database.
func SetDB(database *gorm.DB) {
	db = database
}
