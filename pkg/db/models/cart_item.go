package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one size/quantity line in a buyer's cart. It is created on size
// selection and deleted when the quantity drops to zero or the cart clears.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserChatID int64     `gorm:"column:user_chat_id;not null;index"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Size       string    `gorm:"column:size;not null"`
	Qty        int       `gorm:"column:qty;not null;default:1"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FavoriteItem marks a product starred by a buyer.
type FavoriteItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserChatID int64     `gorm:"column:user_chat_id;not null;uniqueIndex:idx_favorites_user_product"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_favorites_user_product"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (f *FavoriteItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
