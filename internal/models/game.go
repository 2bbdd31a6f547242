package models

import (
	"time"
)

// Game is the concrete payload for catalog items of kind Game. Its primary
// key is the owning item's id (shared-primary-key specialization).
type Game struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ConsoleID       uint       `json:"console_id" gorm:"not null;index"`
	Console         *Console   `json:"console,omitempty" gorm:"foreignKey:ConsoleID"`
	Title           string     `json:"title" gorm:"size:255;not null;index"`
	Region          string     `json:"region" gorm:"size:50;not null"`
	GenreID         *uint      `json:"genre_id" gorm:"index"`
	ReleaseDate     *time.Time `json:"release_date"`
	CoverURL        string     `json:"cover_url" gorm:"size:200"`
	Description     string     `json:"description" gorm:"type:text"`
	Developer       string     `json:"developer" gorm:"size:100"`
	Publisher       string     `json:"publisher" gorm:"size:100"`
	PegiRating      *int       `json:"pegi_rating"`
	DiscCount       *int       `json:"disc_count"`
	PlayerCount     *int       `json:"player_count"`
	CompatibleOn    string     `json:"compatible_on" gorm:"size:100"`
	UPCNumber       *string    `json:"upc_number" gorm:"size:200;uniqueIndex"`
	GTINNumber      *string    `json:"gtin_number" gorm:"size:200;uniqueIndex"`
	ASINNumber      *string    `json:"asin_number" gorm:"size:50;uniqueIndex"`
	CartridgeNumber string     `json:"cartridge_number" gorm:"size:50"`
	PackageNumber   string     `json:"package_number" gorm:"size:50"`
	LooseAvgPrice   float64    `json:"loose_avg_price" gorm:"type:decimal(10,2);default:0"`
	CIBAvgPrice     float64    `json:"cib_avg_price" gorm:"type:decimal(10,2);default:0"`
	NewAvgPrice     float64    `json:"new_avg_price" gorm:"type:decimal(10,2);default:0"`
	Currency        string     `json:"currency" gorm:"size:3;not null;default:'EUR'"`
	Prices          []Price    `json:"prices,omitempty" gorm:"foreignKey:GameID"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GameListEntry is the trimmed shape used by console browse listings.
type GameListEntry struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	CoverURL      string  `json:"coverUrl"`
	CIBAvgPrice   float64 `json:"cib_avg_price"`
	LooseAvgPrice float64 `json:"loose_avg_price"`
}

type GameSearchResult struct {
	TotalItems  int64  `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Items       []Game `json:"items"`
}

type UpdateGameRequest map[string]any
