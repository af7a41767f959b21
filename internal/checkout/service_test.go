package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/cart"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type capturingSender struct {
	sent []notifications.Message
}

func (c *capturingSender) Send(ctx context.Context, msg notifications.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

type fixture struct {
	svc    *Service
	promos *promos.Service
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
		&models.Category{}, &models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.PromoCode{}, &models.UserPromo{},
		&models.Partner{},
	))

	log := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	sender := &capturingSender{}
	notifier, err := notifications.NewService(sender, log, nil,
		config.BotConfig{AdminChatID: 999},
		config.AppConfig{Currency: "₽"},
	)
	require.NoError(t, err)

	partnerSvc, err := partners.NewService(partners.NewRepository(conn), config.PromoConfig{
		MaxPercent: 25, PartnerDiscountPercent: 5, PartnerCommissionPct: 5,
	})
	require.NoError(t, err)

	promoSvc, err := promos.NewService(promos.NewRepository(conn), partnerSvc, config.PromoConfig{
		MaxPercent: 25, ReviewBonusPercent: 5,
	})
	require.NoError(t, err)

	svc, err := NewService(
		client,
		cart.NewRepository(conn),
		orders.NewRepository(conn),
		promoSvc,
		notifier,
		log,
		nil,
	)
	require.NoError(t, err)
	return &fixture{svc: svc, promos: promoSvc, client: client, sender: sender}
}

func (f *fixture) conn() *gorm.DB { return f.client.DB() }

func (f *fixture) seedCartItem(t *testing.T, userChatID int64, priceCents, qty int) {
	t.Helper()
	category := &models.Category{Name: "Тест", Slug: "тест"}
	require.NoError(t, f.conn().FirstOrCreate(category, models.Category{Slug: "тест"}).Error)
	product := &models.Product{CategoryID: category.ID, Title: "Товар", PriceCents: priceCents}
	require.NoError(t, f.conn().Create(product).Error)
	require.NoError(t, f.conn().Create(&models.CartItem{
		UserChatID: userChatID,
		ProductID:  product.ID,
		Size:       "M",
		Qty:        qty,
	}).Error)
}

func TestExecuteAppliesSavedPromo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCartItem(t, 1, 100000, 2)
	require.NoError(t, f.conn().Create(&models.PromoCode{Code: "SALE10", DiscountPercent: 10}).Error)
	_, err := f.promos.SetUserPromo(ctx, 1, "SALE10")
	require.NoError(t, err)

	order, err := f.svc.Execute(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.OrderNumber)
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	assert.Equal(t, 200000, order.TotalCents)
	assert.Equal(t, 10, order.DiscountPercent)
	assert.Equal(t, 180000, order.FinalTotalCents)
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "SALE10", *order.PromoCode)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 100000, order.Items[0].UnitPriceCents)

	var promo models.PromoCode
	require.NoError(t, f.conn().First(&promo, "code = ?", "SALE10").Error)
	assert.Equal(t, 1, promo.Used)
	assert.Zero(t, promo.ConfirmedUses)

	var cartCount int64
	require.NoError(t, f.conn().Model(&models.CartItem{}).Count(&cartCount).Error)
	assert.Zero(t, cartCount, "cart must clear after the order persists")

	require.Len(t, f.sender.sent, 2, "buyer receipt and admin card")
}

func TestExecuteEmptyCartRejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Execute(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	var orderCount int64
	require.NoError(t, f.conn().Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	assert.Empty(t, f.sender.sent)
}

func TestExecuteDegradesWhenPromoExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCartItem(t, 2, 150000, 1)
	require.NoError(t, f.conn().Create(&models.PromoCode{
		Code: "ONCE", DiscountPercent: 10, MaxUses: 1, Used: 1,
	}).Error)
	// Saved before the code ran out.
	require.NoError(t, f.conn().Create(&models.UserPromo{
		UserChatID: 2, Code: "ONCE", DiscountPercent: 10,
	}).Error)

	order, err := f.svc.Execute(ctx, 2)
	require.NoError(t, err)

	assert.Zero(t, order.DiscountPercent)
	assert.Nil(t, order.PromoCode)
	assert.Equal(t, 150000, order.FinalTotalCents)

	var promo models.PromoCode
	require.NoError(t, f.conn().First(&promo, "code = ?", "ONCE").Error)
	assert.Equal(t, 1, promo.Used, "exhausted code must not be over-reserved")

	var savedCount int64
	require.NoError(t, f.conn().Model(&models.UserPromo{}).Count(&savedCount).Error)
	assert.Zero(t, savedCount, "dead selection is dropped")
}

func TestExecuteSequencesOrderNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCartItem(t, 3, 50000, 1)
	first, err := f.svc.Execute(ctx, 3)
	require.NoError(t, err)

	f.seedCartItem(t, 3, 70000, 1)
	second, err := f.svc.Execute(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.OrderNumber)
	assert.Equal(t, int64(2), second.OrderNumber)
}

func TestFinalTotalRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 1800, finalTotal(2000, 10))
	assert.Equal(t, 95, finalTotal(105, 10), "94.5 rounds up")
	assert.Equal(t, 333, finalTotal(333, 0))
	assert.Equal(t, 250, finalTotal(1000, 75))
}
