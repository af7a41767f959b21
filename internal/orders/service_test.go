package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

const adminChatID int64 = 999

type capturingSender struct {
	sent []notifications.Message
}

func (c *capturingSender) Send(ctx context.Context, msg notifications.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

type fixture struct {
	svc    *Service
	client *db.Client
	sender *capturingSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	require.NoError(t, conn.AutoMigrate(
		&models.Order{}, &models.OrderItem{},
		&models.PromoCode{}, &models.UserPromo{},
		&models.Partner{}, &models.PartnerRequest{},
		&models.Category{}, &models.Product{},
	))

	log := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	sender := &capturingSender{}
	notifier, err := notifications.NewService(sender, log, nil,
		config.BotConfig{AdminChatID: adminChatID},
		config.AppConfig{Currency: "₽"},
	)
	require.NoError(t, err)

	svc, err := NewService(
		client,
		NewRepository(conn),
		promos.NewRepository(conn),
		partners.NewRepository(conn),
		notifier,
		log,
		nil,
		config.BotConfig{AdminChatID: adminChatID},
	)
	require.NoError(t, err)
	return &fixture{svc: svc, client: client, sender: sender}
}

func (f *fixture) conn() *gorm.DB { return f.client.DB() }

func (f *fixture) seedOrder(t *testing.T, number int64, finalCents int, promoCode *string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:     number,
		UserChatID:      42,
		Status:          enums.OrderStatusNew,
		TotalCents:      finalCents,
		FinalTotalCents: finalCents,
		PromoCode:       promoCode,
	}
	if promoCode != nil {
		order.DiscountPercent = 5
	}
	require.NoError(t, f.conn().Create(order).Error)
	return order
}

func (f *fixture) seedPartner(t *testing.T, chatID int64, code string, commissionPct int) {
	t.Helper()
	require.NoError(t, f.conn().Create(&models.Partner{
		UserChatID:        chatID,
		Code:              code,
		DiscountPercent:   5,
		CommissionPercent: commissionPct,
		IsActive:          true,
	}).Error)
	require.NoError(t, f.conn().Create(&models.PromoCode{Code: code, DiscountPercent: 5}).Error)
}

func strPtr(s string) *string { return &s }

func TestConfirmSettlesCommissionExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPartner(t, 77, "PARTNER", 5)
	order := f.seedOrder(t, 1, 180000, strPtr("PARTNER"))

	require.NoError(t, f.svc.Confirm(ctx, adminChatID, 1))

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, 9000, stored.PartnerCommissionCents)
	assert.True(t, stored.PartnerPaid)

	var partner models.Partner
	require.NoError(t, f.conn().First(&partner, "user_chat_id = ?", int64(77)).Error)
	assert.Equal(t, 9000, partner.BalanceCents)
	assert.Equal(t, 9000, partner.TotalEarnedCents)
	assert.Equal(t, 180000, partner.TotalSalesCents)
	assert.Equal(t, 1, partner.ConfirmedUses)

	// Second confirm must not move the balance again.
	require.NoError(t, f.svc.Confirm(ctx, adminChatID, 1))
	require.NoError(t, f.conn().First(&partner, "user_chat_id = ?", int64(77)).Error)
	assert.Equal(t, 9000, partner.BalanceCents)
	assert.Equal(t, 1, partner.ConfirmedUses)

	require.NoError(t, f.conn().First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, 9000, stored.PartnerCommissionCents)
}

func TestConfirmPlainPromoMovesConfirmedCounterOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.conn().Create(&models.PromoCode{Code: "SALE", DiscountPercent: 10}).Error)
	f.seedOrder(t, 2, 90000, strPtr("SALE"))

	require.NoError(t, f.svc.Confirm(ctx, adminChatID, 2))

	var promo models.PromoCode
	require.NoError(t, f.conn().First(&promo, "code = ?", "SALE").Error)
	assert.Equal(t, 1, promo.ConfirmedUses)

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "order_number = ?", int64(2)).Error)
	assert.False(t, stored.PartnerPaid)
	assert.Zero(t, stored.PartnerCommissionCents)
}

func TestConfirmZeroCommissionLeavesFlagDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPartner(t, 88, "FREE", 0)
	f.seedOrder(t, 3, 100000, strPtr("FREE"))

	require.NoError(t, f.svc.Confirm(ctx, adminChatID, 3))

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "order_number = ?", int64(3)).Error)
	assert.False(t, stored.PartnerPaid, "a zero commission must not consume the settlement guard")

	var partner models.Partner
	require.NoError(t, f.conn().First(&partner, "user_chat_id = ?", int64(88)).Error)
	assert.Zero(t, partner.BalanceCents)
}

func TestConfirmRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, 4, 50000, nil)

	err := f.svc.Confirm(context.Background(), 123, 4)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "order_number = ?", int64(4)).Error)
	assert.Equal(t, enums.OrderStatusNew, stored.Status)
}

func TestConfirmUnknownOrderReportsNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Confirm(context.Background(), adminChatID, 404)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestRejectTouchesNoCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedPartner(t, 77, "PARTNER", 5)
	f.seedOrder(t, 5, 180000, strPtr("PARTNER"))

	require.NoError(t, f.svc.Reject(ctx, adminChatID, 5))

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "order_number = ?", int64(5)).Error)
	assert.Equal(t, enums.OrderStatusRejected, stored.Status)
	assert.False(t, stored.PartnerPaid)

	var promo models.PromoCode
	require.NoError(t, f.conn().First(&promo, "code = ?", "PARTNER").Error)
	assert.Zero(t, promo.ConfirmedUses)

	var partner models.Partner
	require.NoError(t, f.conn().First(&partner, "user_chat_id = ?", int64(77)).Error)
	assert.Zero(t, partner.BalanceCents)
	assert.Zero(t, partner.ConfirmedUses)
}

func TestSetDeliveryStatusOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedOrder(t, 6, 50000, nil)

	require.NoError(t, f.svc.Confirm(ctx, adminChatID, 6))
	require.NoError(t, f.svc.SetDeliveryStatus(ctx, adminChatID, 6, enums.OrderStatusShipped))

	var stored models.Order
	require.NoError(t, f.conn().First(&stored, "order_number = ?", int64(6)).Error)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)

	err := f.svc.SetDeliveryStatus(ctx, adminChatID, 6, enums.OrderStatusConfirmed)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestCommissionRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 90, commissionFor(1800, 5))
	assert.Equal(t, 1, commissionFor(10, 5), "0.5 rounds up")
	assert.Equal(t, 13, commissionFor(250, 5), "12.5 rounds up")
	assert.Zero(t, commissionFor(1800, 0))
}
