package metrics

import (
	"gorm.io/gorm"
)

// UpdateCollectionMetrics refreshes the collection and catalog gauges from
// the store. Call it after any write that moves the totals; failures only
// leave the gauges stale, so errors are swallowed.
func UpdateCollectionMetrics(db *gorm.DB) {
	var held int64
	err := db.Table("transactions").
		Where("transaction_type = ?", "purchase").
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&held).Error
	if err == nil {
		CollectionItemsTotal.Set(float64(held))
	}

	var games int64
	if err := db.Table("games").Count(&games).Error; err == nil {
		GameDatabaseSize.Set(float64(games))
	}
}
