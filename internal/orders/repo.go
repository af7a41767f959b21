package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

// Repository persists orders and their line snapshots.
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

// NextOrderNumber hands out the next human-facing order number. Callers run it
// inside the checkout transaction so the MAX+1 read cannot race itself under
// the sequential processing model.
func (r *Repository) NextOrderNumber(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&max).
		Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create persists the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads the order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads the order by its human-facing number.
func (r *Repository) FindByNumber(ctx context.Context, number int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "order_number = ?", number).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userChatID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_chat_id = ?", userChatID).
		Order("order_number DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecent returns the latest orders for the admin panel.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("order_number DESC").
		Limit(limit).
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus overwrites the order's status column.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// SettleCommission stamps the commission amount and flips partner_paid, but
// only when the flag is still down. It reports whether this call won the
// settlement; a false return means a previous confirm already paid out.
func (r *Repository) SettleCommission(ctx context.Context, id uuid.UUID, commissionCents int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND partner_paid = ?", id, false).
		Updates(map[string]any{
			"partner_commission_cents": commissionCents,
			"partner_paid":             true,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
