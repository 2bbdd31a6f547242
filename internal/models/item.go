package models

import (
	"time"
)

type ItemKind string

const (
	ItemKindGame      ItemKind = "Game"
	ItemKindBook      ItemKind = "Book"
	ItemKindCard      ItemKind = "Card"
	ItemKindAccessory ItemKind = "Accessory"
	ItemKindOther     ItemKind = "Other"
)

// Item is the abstract catalog entry. Concrete payloads (Game, Card) share
// the item's primary key, so exactly one subtype row exists per item and is
// addressed by the same id.
type Item struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Kind      ItemKind  `json:"kind" gorm:"size:20;not null;index"`
	Game      *Game     `json:"game,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	Card      *Card     `json:"card,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Title reports the display title of the item's subtype row, if one exists.
func (i Item) Title() string {
	switch {
	case i.Game != nil:
		return i.Game.Title
	case i.Card != nil:
		return i.Card.Title
	default:
		return ""
	}
}
