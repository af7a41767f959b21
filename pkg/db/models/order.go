package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

// Order is the immutable financial snapshot produced by checkout. The money
// fields are fixed at creation; only status and the partner settlement fields
// change afterwards.
type Order struct {
	ID                     uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber            int64             `gorm:"column:order_number;not null;uniqueIndex"`
	UserChatID             int64             `gorm:"column:user_chat_id;not null;index"`
	Status                 enums.OrderStatus `gorm:"column:status;not null;default:'new'"`
	TotalCents             int               `gorm:"column:total_cents;not null"`
	DiscountPercent        int               `gorm:"column:discount_percent;not null;default:0"`
	FinalTotalCents        int               `gorm:"column:final_total_cents;not null"`
	PromoCode              *string           `gorm:"column:promo_code"`
	PartnerCommissionCents int               `gorm:"column:partner_commission_cents;not null;default:0"`
	PartnerPaid            bool              `gorm:"column:partner_paid;not null;default:false"`
	Items                  []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots one cart line. The unit price is copied at checkout so
// later catalog price changes never touch past orders.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Size           string    `gorm:"column:size;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Product        *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
