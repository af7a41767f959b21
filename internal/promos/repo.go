package promos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Repository persists promo codes and per-user promo selections.
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

// FindCode loads one promo code row by its canonical code.
func (r *Repository) FindCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// CreateCode inserts a promo code row.
func (r *Repository) CreateCode(ctx context.Context, promo *models.PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

// ListCodes returns all promo codes, newest first.
func (r *Repository) ListCodes(ctx context.Context) ([]models.PromoCode, error) {
	var codes []models.PromoCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// DeleteCode removes a promo code row.
func (r *Repository) DeleteCode(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&models.PromoCode{}, "code = ?", code).Error
}

// IncrementUsed bumps the reservation counter by one.
func (r *Repository) IncrementUsed(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("code = ?", code).
		UpdateColumn("used", gorm.Expr("used + 1")).
		Error
}

// IncrementConfirmed bumps the confirmed-use counter by one.
func (r *Repository) IncrementConfirmed(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("code = ?", code).
		UpdateColumn("confirmed_uses", gorm.Expr("confirmed_uses + 1")).
		Error
}

// CodeTaken reports whether the code already names a promo or a partner.
func (r *Repository) CodeTaken(ctx context.Context, code string) (bool, error) {
	code = strings.ToUpper(code)
	if _, err := r.FindCode(ctx, code); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	var partner models.Partner
	err := r.db.WithContext(ctx).First(&partner, "code = ?", code).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// UpsertUserPromo overwrites the user's single saved promo selection.
func (r *Repository) UpsertUserPromo(ctx context.Context, userChatID int64, code string, percent int) error {
	selection := models.UserPromo{
		UserChatID:      userChatID,
		Code:            code,
		DiscountPercent: percent,
	}
	return r.db.WithContext(ctx).Save(&selection).Error
}

// FindUserPromo loads the user's saved promo selection.
func (r *Repository) FindUserPromo(ctx context.Context, userChatID int64) (*models.UserPromo, error) {
	var selection models.UserPromo
	if err := r.db.WithContext(ctx).First(&selection, "user_chat_id = ?", userChatID).Error; err != nil {
		return nil, err
	}
	return &selection, nil
}

// DeleteUserPromo clears the user's saved promo selection.
func (r *Repository) DeleteUserPromo(ctx context.Context, userChatID int64) error {
	return r.db.WithContext(ctx).Delete(&models.UserPromo{}, "user_chat_id = ?", userChatID).Error
}
