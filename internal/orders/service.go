package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the admin-side order lifecycle: confirm with at-most-once
// partner commission settlement, reject, and delivery status updates.
type Service struct {
	tx       txRunner
	repo     *Repository
	promos   *promos.Repository
	partners *partners.Repository
	notifier *notifications.Service
	log      *logger.Logger
	metrics  *metrics.ShopMetrics
	admin    int64
}

// NewService wires the order lifecycle service.
func NewService(
	tx txRunner,
	repo *Repository,
	promoRepo *promos.Repository,
	partnerRepo *partners.Repository,
	notifier *notifications.Service,
	log *logger.Logger,
	m *metrics.ShopMetrics,
	botCfg config.BotConfig,
) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil || promoRepo == nil || partnerRepo == nil {
		return nil, fmt.Errorf("order, promo, and partner repositories required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		tx:       tx,
		repo:     repo,
		promos:   promoRepo,
		partners: partnerRepo,
		notifier: notifier,
		log:      log,
		metrics:  m,
		admin:    botCfg.AdminChatID,
	}, nil
}

// ByNumber loads one order for display.
func (s *Service) ByNumber(ctx context.Context, number int64) (*models.Order, error) {
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListForUser returns the buyer's order history, newest first.
func (s *Service) ListForUser(ctx context.Context, userChatID int64) ([]models.Order, error) {
	list, err := s.repo.ListByUser(ctx, userChatID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Recent returns the latest orders for the admin panel.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Confirm marks the order confirmed and settles the partner commission at most
// once. The partner_paid flag is flipped by a conditional update inside the
// same transaction as the balance credit, so a repeated confirm finds the flag
// already up and skips the payout branch entirely.
func (s *Service) Confirm(ctx context.Context, actorChatID int64, orderNumber int64) error {
	if err := s.requireAdmin(actorChatID); err != nil {
		return err
	}
	order, err := s.ByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	ctx = s.log.WithOrderNumber(ctx, order.OrderNumber)

	var (
		paidPartner     *models.Partner
		commissionCents int
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)

		if err := orderRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed); err != nil {
			return err
		}
		if order.PromoCode == nil {
			return nil
		}
		if err := s.promos.WithTx(tx).IncrementConfirmed(ctx, *order.PromoCode); err != nil {
			return err
		}
		if order.PartnerPaid {
			return nil
		}

		partnerRepo := s.partners.WithTx(tx)
		partner, err := partnerRepo.ByCode(ctx, *order.PromoCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		commission := commissionFor(order.FinalTotalCents, partner.CommissionPercent)
		if commission <= 0 {
			return nil
		}

		won, err := orderRepo.SettleCommission(ctx, order.ID, commission)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		if err := partnerRepo.Credit(ctx, partner.UserChatID, commission, order.FinalTotalCents); err != nil {
			return err
		}
		paidPartner = partner
		commissionCents = commission
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
	}

	order.Status = enums.OrderStatusConfirmed
	s.metrics.IncDecision("confirmed")
	s.notifier.OrderConfirmed(ctx, order)
	if paidPartner != nil {
		s.metrics.IncCommission()
		s.notifier.CommissionPaid(ctx, paidPartner, order, commissionCents)
		s.log.Info(s.log.WithChatID(ctx, paidPartner.UserChatID), "partner commission settled")
	}
	return nil
}

// Reject marks the order rejected. No promo or partner counter moves.
func (s *Service) Reject(ctx context.Context, actorChatID int64, orderNumber int64) error {
	if err := s.requireAdmin(actorChatID); err != nil {
		return err
	}
	order, err := s.ByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusRejected); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject order")
	}

	order.Status = enums.OrderStatusRejected
	s.metrics.IncDecision("rejected")
	s.notifier.OrderRejected(ctx, order)
	return nil
}

// SetDeliveryStatus overwrites the order's status with a delivery sub-status
// and pings the buyer. Last admin write wins; the decision statuses are not
// reachable through this path.
func (s *Service) SetDeliveryStatus(ctx context.Context, actorChatID int64, orderNumber int64, status enums.OrderStatus) error {
	if err := s.requireAdmin(actorChatID); err != nil {
		return err
	}
	if !status.IsDeliveryStatus() {
		return pkgerrors.New(pkgerrors.CodeValidation, "not a delivery status").
			WithDetails(map[string]string{"status": string(status)})
	}
	order, err := s.ByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = status
	s.notifier.DeliveryStatusChanged(ctx, order)
	return nil
}

func (s *Service) requireAdmin(actorChatID int64) error {
	if actorChatID != s.admin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin only")
	}
	return nil
}

// commissionFor computes the commission in cents, rounding half up.
func commissionFor(finalTotalCents, commissionPercent int) int {
	if commissionPercent <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(finalTotalCents)).
		Mul(decimal.NewFromInt(int64(commissionPercent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart())
}
