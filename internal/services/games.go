package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/models"
)

// CreateGame inserts an Item of kind Game and the game payload sharing its
// primary key, atomically. Extra fields pass through the mutable-field
// allow-list.
func CreateGame(ctx context.Context, db *gorm.DB, consoleID uint, title, region string, fields map[string]any) (*models.Game, error) {
	var game models.Game
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := models.Item{Kind: models.ItemKindGame}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}

		game = models.Game{
			ID:        item.ID,
			ConsoleID: consoleID,
			Title:     title,
			Region:    region,
			Currency:  "EUR",
		}
		for field, value := range fields {
			setter, ok := gameFieldSetters[field]
			if !ok {
				return validationErrorf("field '%s' of a game cannot be set", field)
			}
			if err := setter(&game, value); err != nil {
				return err
			}
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// ApplyGameUpdate performs a direct admin edit of a game through the same
// mutable-field allow-list that governs change-request approval, so the two
// paths can never drift apart on what is editable.
func ApplyGameUpdate(ctx context.Context, db *gorm.DB, id uint, changes map[string]any) (*models.Game, error) {
	var game models.Game
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load game: %w", err)
		}
		for field, value := range changes {
			setter, ok := gameFieldSetters[field]
			if !ok {
				return validationErrorf("field '%s' of a game cannot be changed", field)
			}
			if err := setter(&game, value); err != nil {
				return err
			}
		}
		return tx.Save(&game).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}
