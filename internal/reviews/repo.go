package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Repository persists reviews and the invites that gate them.
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

// Create stores a new review awaiting moderation.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID loads one review.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListPending returns unmoderated reviews, oldest first.
func (r *Repository) ListPending(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&reviews).
		Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListApproved returns published reviews, newest first.
func (r *Repository) ListApproved(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Find(&reviews).
		Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Approve flips the moderation flag.
func (r *Repository) Approve(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("is_approved", true).
		Error
}

// Delete removes a rejected review.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

// UpsertInvite opens (or reopens) the user's review invite.
func (r *Repository) UpsertInvite(ctx context.Context, userChatID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_chat_id"}},
			DoUpdates: clause.Assignments(map[string]any{"used": false, "invited_at": gorm.Expr("CURRENT_TIMESTAMP")}),
		}).
		Create(&models.ReviewInvite{UserChatID: userChatID}).
		Error
}

// FindInvite loads the user's invite, if any.
func (r *Repository) FindInvite(ctx context.Context, userChatID int64) (*models.ReviewInvite, error) {
	var invite models.ReviewInvite
	if err := r.db.WithContext(ctx).First(&invite, "user_chat_id = ?", userChatID).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkInviteUsed closes the invite once a review comes in.
func (r *Repository) MarkInviteUsed(ctx context.Context, userChatID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.ReviewInvite{}).
		Where("user_chat_id = ?", userChatID).
		Update("used", true).
		Error
}
