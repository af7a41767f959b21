package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

// Partner is a referral partner whose code doubles as a promo code. The code
// string is the shared identity with the PromoCode row created at approval.
type Partner struct {
	UserChatID        int64     `gorm:"column:user_chat_id;primaryKey"`
	Username          *string   `gorm:"column:username"`
	Code              string    `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercent   int       `gorm:"column:discount_percent;not null"`
	CommissionPercent int       `gorm:"column:commission_percent;not null"`
	BalanceCents      int       `gorm:"column:balance_cents;not null;default:0"`
	TotalEarnedCents  int       `gorm:"column:total_earned_cents;not null;default:0"`
	TotalSalesCents   int       `gorm:"column:total_sales_cents;not null;default:0"`
	ConfirmedUses     int       `gorm:"column:confirmed_uses;not null;default:0"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PartnerRequest tracks a user's application to the partner program.
type PartnerRequest struct {
	ID          uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	UserChatID  int64                      `gorm:"column:user_chat_id;not null;uniqueIndex"`
	Username    *string                    `gorm:"column:username"`
	Status      enums.PartnerRequestStatus `gorm:"column:status;not null;default:'pending'"`
	RequestedAt time.Time                  `gorm:"column:requested_at;autoCreateTime"`
	DecidedAt   *time.Time                 `gorm:"column:decided_at"`
}

func (p *PartnerRequest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
