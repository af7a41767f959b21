package partners

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

// Repository persists partner accounts and program applications.
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

// ByCode loads the active partner owning the code.
func (r *Repository) ByCode(ctx context.Context, code string) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).
		First(&partner, "code = ? AND is_active = ?", code, true).
		Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// FindByChatID loads the partner account regardless of active state.
func (r *Repository) FindByChatID(ctx context.Context, chatID int64) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "user_chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// UpsertPartner inserts the partner or refreshes its code, rates, and active
// flag on re-approval.
func (r *Repository) UpsertPartner(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "code", "discount_percent", "commission_percent", "is_active",
			}),
		}).
		Create(partner).
		Error
}

// CreateShadowCode inserts the promo row sharing the partner's code string,
// keeping any existing row untouched.
func (r *Repository) CreateShadowCode(ctx context.Context, code string, discountPercent int) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(&models.PromoCode{Code: code, DiscountPercent: discountPercent}).
		Error
}

// Credit applies a confirmed sale to the partner's running totals.
func (r *Repository) Credit(ctx context.Context, chatID int64, commissionCents, saleCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("user_chat_id = ?", chatID).
		UpdateColumns(map[string]any{
			"balance_cents":      gorm.Expr("balance_cents + ?", commissionCents),
			"total_earned_cents": gorm.Expr("total_earned_cents + ?", commissionCents),
			"total_sales_cents":  gorm.Expr("total_sales_cents + ?", saleCents),
			"confirmed_uses":     gorm.Expr("confirmed_uses + 1"),
		}).
		Error
}

// SetActive flips the partner's active flag.
func (r *Repository) SetActive(ctx context.Context, chatID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("user_chat_id = ?", chatID).
		Update("is_active", active).
		Error
}

// FindRequest loads the user's application.
func (r *Repository) FindRequest(ctx context.Context, chatID int64) (*models.PartnerRequest, error) {
	var request models.PartnerRequest
	if err := r.db.WithContext(ctx).First(&request, "user_chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// UpsertRequest writes the application with the given status, refreshing the
// decision time on re-processing.
func (r *Repository) UpsertRequest(ctx context.Context, chatID int64, username *string, status enums.PartnerRequestStatus, decidedAt *time.Time) error {
	request := models.PartnerRequest{
		UserChatID: chatID,
		Username:   username,
		Status:     status,
		DecidedAt:  decidedAt,
	}
	assignments := map[string]any{"status": status, "decided_at": decidedAt}
	if username != nil {
		assignments["username"] = username
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_chat_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&request).
		Error
}

// CodeExists reports whether a promo or partner already claims the code.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var promoCount int64
	err := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("code = ?", code).
		Count(&promoCount).
		Error
	if err != nil {
		return false, err
	}
	if promoCount > 0 {
		return true, nil
	}
	var partnerCount int64
	err = r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("code = ?", code).
		Count(&partnerCount).
		Error
	if err != nil {
		return false, err
	}
	return partnerCount > 0, nil
}
