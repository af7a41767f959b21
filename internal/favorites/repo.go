package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Repository persists favorite marks.
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

// Find loads the favorite mark for a user/product pair.
func (r *Repository) Find(ctx context.Context, userChatID int64, productID uuid.UUID) (*models.FavoriteItem, error) {
	var item models.FavoriteItem
	err := r.db.WithContext(ctx).
		First(&item, "user_chat_id = ? AND product_id = ?", userChatID, productID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a favorite mark.
func (r *Repository) Create(ctx context.Context, item *models.FavoriteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes a favorite mark.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FavoriteItem{}, "id = ?", id).Error
}

// ListByUser returns the user's favorites with products preloaded, newest first.
func (r *Repository) ListByUser(ctx context.Context, userChatID int64) ([]models.FavoriteItem, error) {
	var items []models.FavoriteItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_chat_id = ?", userChatID).
		Order("created_at DESC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
