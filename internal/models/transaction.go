package models

import (
	"time"
)

type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeSale     TransactionType = "sale"
)

// Physical condition ids for collection entries. The id selects which of the
// game's average-price columns values the held copies.
const (
	ConditionLoose = 1
	ConditionCIB   = 2
	ConditionNew   = 3
)

// Transaction is a purchase (or sale) record in a user's collection.
// TransactionDate is a plain calendar date stored as YYYY-MM-DD with no time
// component, so date comparisons are timezone-free.
type Transaction struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	User            *User           `json:"-" gorm:"foreignKey:UserID"`
	GameID          uint            `json:"game_id" gorm:"not null;index"`
	Game            *Game           `json:"game,omitempty" gorm:"foreignKey:GameID"`
	ConsoleID       *uint           `json:"console_id" gorm:"index"`
	TransactionType TransactionType `json:"transaction_type" gorm:"size:10;not null"`
	Quantity        int             `json:"quantity" gorm:"not null;default:1"`
	Price           float64         `json:"price" gorm:"not null;default:0"`
	TransactionDate string          `json:"transaction_date" gorm:"type:date;not null;index"`
	ConditionID     int             `json:"condition_id" gorm:"default:1"`
	Conditions      string          `json:"conditions" gorm:"size:255"`
	Description     string          `json:"description" gorm:"size:255"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ValuationPrice picks the game's average price matching a condition id.
// Unknown ids fall back to the loose price.
func (g Game) ValuationPrice(conditionID int) float64 {
	switch conditionID {
	case ConditionCIB:
		return g.CIBAvgPrice
	case ConditionNew:
		return g.NewAvgPrice
	case ConditionLoose:
		return g.LooseAvgPrice
	default:
		return g.LooseAvgPrice
	}
}

type AddToCollectionRequest struct {
	GameID        uint     `json:"game_id" binding:"required"`
	ConsoleID     *uint    `json:"console_id"`
	Quantity      int      `json:"quantity" binding:"required,min=1"`
	PurchasePrice *float64 `json:"purchase_price" binding:"required,min=0"`
	PurchaseDate  string   `json:"purchase_date" binding:"required"`
	ConditionID   int      `json:"condition_id"`
	Conditions    []string `json:"conditions"`
	Description   string   `json:"description"`
}

type UpdateCollectionRequest struct {
	GameID        *uint     `json:"game_id"`
	ConsoleID     *uint     `json:"console_id"`
	Quantity      *int      `json:"quantity"`
	PurchasePrice *float64  `json:"purchase_price"`
	PurchaseDate  *string   `json:"purchase_date"`
	ConditionID   *int      `json:"condition_id"`
	Conditions    *[]string `json:"conditions"`
	Description   *string   `json:"description"`
}

// CollectionEntry is the serialized shape of one collection row joined with
// its game.
type CollectionEntry struct {
	TransactionID uint    `json:"transaction_id"`
	GameID        uint    `json:"game_id"`
	ItemTitle     string  `json:"item_title"`
	ConsoleName   string  `json:"console_name"`
	CoverURL      string  `json:"cover_url"`
	PurchaseDate  string  `json:"purchase_date"`
	PurchasePrice float64 `json:"purchase_price"`
	Conditions    string  `json:"conditions"`
	ConditionID   int     `json:"condition_id"`
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	CIBAvgPrice   float64 `json:"cib_avg_price"`
	LooseAvgPrice float64 `json:"loose_avg_price"`
	NewAvgPrice   float64 `json:"new_avg_price"`
	// Current worth of the held copies: the condition-matched average
	// price times the quantity.
	EstimatedValue float64 `json:"estimated_value"`
}
