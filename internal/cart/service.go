package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

type repository interface {
	CreateItem(ctx context.Context, item *models.CartItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userChatID int64) ([]models.CartItem, error)
	UpdateQty(ctx context.Context, id uuid.UUID, qty int) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ClearUser(ctx context.Context, userChatID int64) error
}

// Service manages a buyer's cart lines.
type Service struct {
	repo repository
}

// NewService wires the cart service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &Service{repo: repo}, nil
}

// Add appends the picked product and size as a new cart line.
func (s *Service) Add(ctx context.Context, userChatID int64, productID uuid.UUID, size string) error {
	if !catalog.ValidSize(size) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown size").
			WithDetails(map[string]string{"size": size})
	}
	item := &models.CartItem{
		UserChatID: userChatID,
		ProductID:  productID,
		Size:       size,
		Qty:        1,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return nil
}

// AdjustQty shifts a line's quantity by delta and deletes the line once it
// drops to zero or below.
func (s *Service) AdjustQty(ctx context.Context, itemID uuid.UUID, delta int) error {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	qty := item.Qty + delta
	if qty <= 0 {
		if err := s.repo.DeleteItem(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		return nil
	}
	if err := s.repo.UpdateQty(ctx, itemID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart qty")
	}
	return nil
}

// Remove deletes one cart line outright.
func (s *Service) Remove(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userChatID int64) error {
	if err := s.repo.ClearUser(ctx, userChatID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// List returns the cart lines with products preloaded, oldest first.
func (s *Service) List(ctx context.Context, userChatID int64) ([]models.CartItem, error) {
	items, err := s.repo.ListByUser(ctx, userChatID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	return items, nil
}

// TotalCents sums price times quantity over the given lines using current
// product prices.
func TotalCents(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total += item.Product.PriceCents * item.Qty
	}
	return total
}
