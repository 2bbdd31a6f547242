package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "pending"
	ChangeStatusApproved ChangeStatus = "approved"
	ChangeStatusRejected ChangeStatus = "rejected"
)

// ItemChange is a user-proposed edit to a catalog item awaiting an
// administrator decision. ProposedChanges maps field names to new values and
// is only interpreted at approval time. Once the status leaves pending the
// row is immutable.
type ItemChange struct {
	ID              uint              `json:"id" gorm:"primaryKey;autoIncrement"`
	ItemID          uint              `json:"item_id" gorm:"not null;index"`
	Item            Item              `json:"item" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	UserID          uint              `json:"user_id" gorm:"not null;index"`
	User            User              `json:"-" gorm:"foreignKey:UserID"`
	ProposedChanges datatypes.JSONMap `json:"proposed_changes" gorm:"not null"`
	Status          ChangeStatus      `json:"status" gorm:"size:10;not null;default:'pending';index"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ItemChangeView is the admin-facing shape of a proposal, joined with its
// target item and proposing user.
type ItemChangeView struct {
	ID              uint              `json:"id"`
	Item            Item              `json:"item"`
	ProposedBy      UserSummary       `json:"proposed_by"`
	ProposedChanges datatypes.JSONMap `json:"proposed_changes"`
	Status          ChangeStatus      `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (c ItemChange) View() ItemChangeView {
	return ItemChangeView{
		ID:              c.ID,
		Item:            c.Item,
		ProposedBy:      c.User.Summary(),
		ProposedChanges: c.ProposedChanges,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
	}
}

type ProposeChangeRequest struct {
	Changes map[string]any `json:"changes" binding:"required"`
}
