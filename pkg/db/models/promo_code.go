package models

import "time"

// PromoCode is keyed by its canonical (trimmed, uppercased) code. Used counts
// optimistic reservations taken at checkout; ConfirmedUses counts only uses the
// admin confirmed. ConfirmedUses <= Used <= MaxUses whenever MaxUses > 0.
type PromoCode struct {
	Code            string    `gorm:"column:code;primaryKey"`
	DiscountPercent int       `gorm:"column:discount_percent;not null"`
	// MaxUses <= 0 means unlimited.
	MaxUses       int       `gorm:"column:max_uses;not null;default:0"`
	Used          int       `gorm:"column:used;not null;default:0"`
	ConfirmedUses int       `gorm:"column:confirmed_uses;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// UserPromo is the single saved promo selection per user, overwritten on each
// new code entry and consumed by checkout.
type UserPromo struct {
	UserChatID      int64     `gorm:"column:user_chat_id;primaryKey"`
	Code            string    `gorm:"column:code;not null"`
	DiscountPercent int       `gorm:"column:discount_percent;not null"`
	SetAt           time.Time `gorm:"column:set_at;autoCreateTime"`
}
