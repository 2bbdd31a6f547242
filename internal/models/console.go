package models

import (
	"time"
)

type Console struct {
	ID             uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string        `json:"name" gorm:"size:100;uniqueIndex;not null"`
	NameLower      string        `json:"-" gorm:"size:100;index"`
	ManufacturerID uint          `json:"manufacturer_id" gorm:"not null;index"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	ReleaseDate    *time.Time    `json:"release_date"`
	ImageURL       string        `json:"image_url" gorm:"size:255"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type Manufacturer struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	ImageURL  string    `json:"image_url" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
