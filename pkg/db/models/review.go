package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a buyer testimonial awaiting admin moderation.
type Review struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserChatID   int64     `gorm:"column:user_chat_id;not null;index"`
	Text         string    `gorm:"column:text;not null"`
	PhotoFileIDs []string  `gorm:"column:photo_file_ids;serializer:json"`
	IsApproved   bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReviewInvite marks that the admin invited a user to leave a review; used
// invites gate the one-time bonus promo.
type ReviewInvite struct {
	UserChatID int64     `gorm:"column:user_chat_id;primaryKey"`
	InvitedAt  time.Time `gorm:"column:invited_at;autoCreateTime"`
	Used       bool      `gorm:"column:used;not null;default:false"`
}
