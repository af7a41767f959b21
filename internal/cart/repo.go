package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Repository persists cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateItem appends a cart line. Repeated picks of the same product and size
// stay separate lines, matching the per-tap flow in the chat.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItem loads one cart line.
func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser returns the user's cart in insertion order with products preloaded.
func (r *Repository) ListByUser(ctx context.Context, userChatID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_chat_id = ?", userChatID).
		Order("created_at ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQty sets the quantity on a cart line.
func (r *Repository) UpdateQty(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("qty", qty).
		Error
}

// DeleteItem removes one cart line.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id).Error
}

// ClearUser removes every cart line for the user.
func (r *Repository) ClearUser(ctx context.Context, userChatID int64) error {
	return r.db.WithContext(ctx).
		Where("user_chat_id = ?", userChatID).
		Delete(&models.CartItem{}).
		Error
}
