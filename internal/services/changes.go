package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/metrics"
	"github.com/retroshelf/retroshelf/internal/models"
)

// ChangeService records proposed edits to catalog items and applies or
// rejects them under an administrator's decision. A proposal is applied at
// most once: the decision path locks the row (SELECT ... FOR UPDATE) inside
// a single transaction, so two concurrent approvals resolve to one success
// and one conflict.
type ChangeService struct {
	db *gorm.DB
}

func NewChangeService(db *gorm.DB) *ChangeService {
	return &ChangeService{db: db}
}

// Propose records a pending change request against an item. Field names are
// checked against the item kind's mutable set up front; values are validated
// again at approval time.
func (s *ChangeService) Propose(ctx context.Context, userID, itemID uint, changes map[string]any) (*models.ItemChange, error) {
	if len(changes) == 0 {
		return nil, validationErrorf("no changes proposed")
	}

	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	if err := checkFieldNames(item.Kind, changes); err != nil {
		return nil, err
	}

	change := models.ItemChange{
		ItemID:          itemID,
		UserID:          userID,
		ProposedChanges: datatypes.JSONMap(changes),
		Status:          models.ChangeStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&change).Error; err != nil {
		return nil, fmt.Errorf("failed to create change request: %w", err)
	}

	metrics.ItemChangesProposedTotal.Inc()
	s.refreshPendingGauge(ctx)
	return &change, nil
}

// ListPending returns all pending change requests joined with their target
// item and proposing user, newest first.
func (s *ChangeService) ListPending(ctx context.Context) ([]models.ItemChangeView, error) {
	var changes []models.ItemChange
	err := s.db.WithContext(ctx).
		Preload("Item").Preload("Item.Game").Preload("Item.Card").Preload("User").
		Where("status = ?", models.ChangeStatusPending).
		Order("created_at DESC").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending changes: %w", err)
	}

	views := make([]models.ItemChangeView, 0, len(changes))
	for _, c := range changes {
		views = append(views, c.View())
	}
	return views, nil
}

// Get returns one change request by id with the same joins as ListPending.
func (s *ChangeService) Get(ctx context.Context, id uint) (*models.ItemChangeView, error) {
	var change models.ItemChange
	err := s.db.WithContext(ctx).
		Preload("Item").Preload("Item.Game").Preload("Item.Card").Preload("User").
		First(&change, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load change request: %w", err)
	}
	view := change.View()
	return &view, nil
}

// Approve applies a pending change request to its target item and marks it
// approved. Both mutations commit together or not at all: any failure while
// applying rolls the transaction back, leaving the request pending and the
// item untouched.
func (s *ChangeService) Approve(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		change, err := lockChange(tx, id)
		if err != nil {
			return err
		}
		if change.Status != models.ChangeStatusPending {
			return &ConflictError{Status: change.Status}
		}

		if err := applyProposedChanges(tx, change); err != nil {
			return err
		}

		if err := tx.Model(&models.ItemChange{}).Where("id = ?", change.ID).
			Update("status", models.ChangeStatusApproved).Error; err != nil {
			return fmt.Errorf("failed to update change status: %w", err)
		}
		return nil
	})
	if err == nil {
		metrics.ItemChangesDecidedTotal.WithLabelValues("approved").Inc()
		s.refreshPendingGauge(ctx)
		logger.Info("item change approved", changeIDField(id))
	}
	return err
}

// Reject marks a pending change request rejected without touching the item.
func (s *ChangeService) Reject(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		change, err := lockChange(tx, id)
		if err != nil {
			return err
		}
		if change.Status != models.ChangeStatusPending {
			return &ConflictError{Status: change.Status}
		}
		if err := tx.Model(&models.ItemChange{}).Where("id = ?", change.ID).
			Update("status", models.ChangeStatusRejected).Error; err != nil {
			return fmt.Errorf("failed to update change status: %w", err)
		}
		return nil
	})
	if err == nil {
		metrics.ItemChangesDecidedTotal.WithLabelValues("rejected").Inc()
		s.refreshPendingGauge(ctx)
		logger.Info("item change rejected", changeIDField(id))
	}
	return err
}

// Delete removes a change request regardless of status. Administrative
// cleanup only.
func (s *ChangeService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.ItemChange{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete change request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.refreshPendingGauge(ctx)
	return nil
}

// refreshPendingGauge re-counts the pending backlog after every write that
// can move it. A failed count leaves the gauge stale, nothing more.
func (s *ChangeService) refreshPendingGauge(ctx context.Context) {
	var pending int64
	err := s.db.WithContext(ctx).Model(&models.ItemChange{}).
		Where("status = ?", models.ChangeStatusPending).
		Count(&pending).Error
	if err == nil {
		metrics.ItemChangesPending.Set(float64(pending))
	}
}

// lockChange loads the change request with a row-level lock so that the
// status check and the decision serialize per id. Transaction wrapping alone
// does not prevent two approvals from both observing pending.
func lockChange(tx *gorm.DB, id uint) (*models.ItemChange, error) {
	var change models.ItemChange
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&change, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock change request: %w", err)
	}
	return &change, nil
}

// applyProposedChanges applies the proposal onto the item's subtype row,
// field by field through the per-kind allow-list. Must run inside the
// deciding transaction.
func applyProposedChanges(tx *gorm.DB, change *models.ItemChange) error {
	var item models.Item
	if err := tx.First(&item, change.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErrorf("target item %d no longer exists", change.ItemID)
		}
		return fmt.Errorf("failed to load target item: %w", err)
	}

	switch item.Kind {
	case models.ItemKindGame:
		var game models.Game
		if err := tx.First(&game, item.ID).Error; err != nil {
			return fmt.Errorf("failed to load game row: %w", err)
		}
		for field, value := range change.ProposedChanges {
			setter, ok := gameFieldSetters[field]
			if !ok {
				return validationErrorf("field '%s' of a game cannot be changed", field)
			}
			if err := setter(&game, value); err != nil {
				return err
			}
		}
		if err := tx.Save(&game).Error; err != nil {
			return fmt.Errorf("failed to apply change to game: %w", err)
		}
	case models.ItemKindCard:
		var card models.Card
		if err := tx.First(&card, item.ID).Error; err != nil {
			return fmt.Errorf("failed to load card row: %w", err)
		}
		for field, value := range change.ProposedChanges {
			setter, ok := cardFieldSetters[field]
			if !ok {
				return validationErrorf("field '%s' of a card cannot be changed", field)
			}
			if err := setter(&card, value); err != nil {
				return err
			}
		}
		if err := tx.Save(&card).Error; err != nil {
			return fmt.Errorf("failed to apply change to card: %w", err)
		}
	default:
		return validationErrorf("items of kind '%s' do not accept change requests", item.Kind)
	}
	return nil
}

// checkFieldNames verifies every proposed field is in the mutable set for
// the item kind.
func checkFieldNames(kind models.ItemKind, changes map[string]any) error {
	var known func(string) bool
	switch kind {
	case models.ItemKindGame:
		known = func(f string) bool { _, ok := gameFieldSetters[f]; return ok }
	case models.ItemKindCard:
		known = func(f string) bool { _, ok := cardFieldSetters[f]; return ok }
	default:
		return validationErrorf("items of kind '%s' do not accept change requests", kind)
	}
	for field := range changes {
		if !known(field) {
			return validationErrorf("field '%s' cannot be changed", field)
		}
	}
	return nil
}
