package models

import (
	"time"
)

// Card is the concrete payload for catalog items of kind Card, keyed by the
// owning item's id like Game.
type Card struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:255;not null;index"`
	CardNumber string    `json:"card_number" gorm:"size:50"`
	Rarity     string    `json:"rarity" gorm:"size:50"`
	EditionID  *uint     `json:"edition_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
