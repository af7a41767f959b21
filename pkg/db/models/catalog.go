package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; the slug is the lowercase lookup key.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Product is a catalog entry imported from a channel post.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	Title        string    `gorm:"column:title;not null"`
	Description  string    `gorm:"column:description;not null;default:''"`
	PriceCents   int       `gorm:"column:price_cents;not null"`
	IsPreorder   bool      `gorm:"column:is_preorder;not null;default:false"`
	PhotoFileIDs []string  `gorm:"column:photo_file_ids;serializer:json"`
	Category     *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
