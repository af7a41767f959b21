package models

import "time"

// User represents a shopper identity keyed by their chat id. Identity comes
// from the chat transport, so the chat id is the natural primary key.
type User struct {
	ChatID         int64      `gorm:"column:chat_id;primaryKey"`
	Username       *string    `gorm:"column:username"`
	ReferrerChatID *int64     `gorm:"column:referrer_chat_id;index"`
	LastSeenAt     *time.Time `gorm:"column:last_seen_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
