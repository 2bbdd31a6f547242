package models

import (
	"time"
)

type Wishlist struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_game"`
	GameID    uint      `json:"game_id" gorm:"not null;uniqueIndex:idx_wishlist_user_game"`
	Game      *Game     `json:"game,omitempty" gorm:"foreignKey:GameID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WishlistEntry struct {
	ID      uint      `json:"id"`
	Game    *Game     `json:"game"`
	AddedAt time.Time `json:"added_at"`
}

type WishlistRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}
