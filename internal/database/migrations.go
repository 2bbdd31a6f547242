package database

import (
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/logger"
)

// RunDataMigrations runs custom data migrations after schema changes.
func RunDataMigrations(db *gorm.DB) error {
	if err := normalizeConditionIDs(db); err != nil {
		return err
	}
	if err := normalizeCurrencies(db); err != nil {
		return err
	}
	if err := lowercaseConsoleNames(db); err != nil {
		return err
	}
	return nil
}

// normalizeConditionIDs backfills missing condition ids on transactions.
// Rows imported before condition tracking carry 0/NULL; valuation treats
// those as loose, so persist that explicitly.
func normalizeConditionIDs(db *gorm.DB) error {
	result := db.Exec(`UPDATE transactions SET condition_id = 1 WHERE condition_id IS NULL OR condition_id = 0`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Info("backfilled condition ids on transactions")
	}
	return nil
}

func normalizeCurrencies(db *gorm.DB) error {
	return db.Exec(`UPDATE games SET currency = 'EUR' WHERE currency IS NULL OR currency = ''`).Error
}

// lowercaseConsoleNames keeps the name_lower lookup column in sync for rows
// written before the column existed.
func lowercaseConsoleNames(db *gorm.DB) error {
	return db.Exec(`UPDATE consoles SET name_lower = LOWER(name) WHERE name_lower IS NULL OR name_lower = ''`).Error
}
