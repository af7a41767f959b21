package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/cart"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a non-empty cart into an immutable order in one transaction:
// price snapshot, promo reservation, order number, cart clear. Notifications go
// out only after the transaction commits.
type Service struct {
	tx       txRunner
	carts    *cart.Repository
	orders   *orders.Repository
	promos   *promos.Service
	notifier *notifications.Service
	log      *logger.Logger
	metrics  *metrics.ShopMetrics
}

// NewService wires the checkout engine.
func NewService(
	tx txRunner,
	carts *cart.Repository,
	orderRepo *orders.Repository,
	promoSvc *promos.Service,
	notifier *notifications.Service,
	log *logger.Logger,
	m *metrics.ShopMetrics,
) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil || orderRepo == nil || promoSvc == nil {
		return nil, fmt.Errorf("cart repository, order repository, and promo service required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		tx:       tx,
		carts:    carts,
		orders:   orderRepo,
		promos:   promoSvc,
		notifier: notifier,
		log:      log,
		metrics:  m,
	}, nil
}

// Execute runs the checkout for the user's current cart. The saved promo, if
// any, is reserved inside the transaction; a promo that no longer resolves is
// dropped silently and the order proceeds undiscounted.
func (s *Service) Execute(ctx context.Context, userChatID int64) (*models.Order, error) {
	ctx = s.log.WithChatID(ctx, userChatID)

	var (
		order *models.Order
		items []models.CartItem
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		promoSvc := s.promos.WithTx(tx)

		var err error
		items, err = cartRepo.ListByUser(ctx, userChatID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := cart.TotalCents(items)

		discount := 0
		var promoCode *string
		saved, err := promoSvc.UserPromo(ctx, userChatID)
		if err != nil {
			return err
		}
		if saved.Code != "" {
			reserved, err := promoSvc.Reserve(ctx, saved.Code)
			if err != nil {
				return err
			}
			if reserved.Code == "" {
				// The saved code died since it was entered. Drop it
				// and sell at full price.
				if err := promoSvc.ClearUserPromo(ctx, userChatID); err != nil {
					return err
				}
			} else {
				discount = reserved.Percent
				promoCode = &reserved.Code
			}
		}

		number, err := orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:     number,
			UserChatID:      userChatID,
			Status:          enums.OrderStatusNew,
			TotalCents:      total,
			DiscountPercent: discount,
			FinalTotalCents: finalTotal(total, discount),
			PromoCode:       promoCode,
		}
		for _, item := range items {
			unitPrice := 0
			if item.Product != nil {
				unitPrice = item.Product.PriceCents
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID:      item.ProductID,
				Size:           item.Size,
				Qty:            item.Qty,
				UnitPriceCents: unitPrice,
			})
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return cartRepo.ClearUser(ctx, userChatID)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			s.metrics.IncCheckout("rejected")
			return nil, err
		}
		s.metrics.IncCheckout("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	s.metrics.IncCheckout("ok")
	s.log.Info(s.log.WithOrderNumber(ctx, order.OrderNumber), "order placed")
	s.notifier.OrderPlaced(ctx, order, items)
	return order, nil
}

// finalTotal applies the discount percent and rounds half up.
func finalTotal(totalCents, discountPercent int) int {
	if discountPercent <= 0 {
		return totalCents
	}
	return int(decimal.NewFromInt(int64(totalCents)).
		Mul(decimal.NewFromInt(int64(100 - discountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart())
}
