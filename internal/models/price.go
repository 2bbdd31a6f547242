package models

import (
	"time"
)

// Price is a historical sold-price observation for a game, independent of
// the rolling averages stored on the game row itself.
type Price struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID     uint      `json:"game_id" gorm:"not null;index"`
	PriceType  string    `json:"price_type" gorm:"size:20;not null;default:'Unknown'"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Currency   string    `json:"currency" gorm:"size:3;not null;default:'EUR'"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
