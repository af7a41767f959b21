package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByChatID retrieves the user for the given chat id.
func (r *Repository) FindByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUsername refreshes the stored username and last-seen marker.
func (r *Repository) UpdateUsername(ctx context.Context, chatID int64, username *string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]any{
			"username":     username,
			"last_seen_at": time.Now().UTC(),
		}).Error
}

// CountReferrals returns how many users were attributed to the given referrer.
func (r *Repository) CountReferrals(ctx context.Context, referrerChatID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("referrer_chat_id = ?", referrerChatID).
		Count(&count).Error
	return count, err
}

// ListChatIDs returns every registered chat id; used by the admin broadcast.
func (r *Repository) ListChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Order("chat_id").
		Pluck("chat_id", &ids).Error
	return ids, err
}
