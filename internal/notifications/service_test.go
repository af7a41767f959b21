package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type recordingSender struct {
	sent    []Message
	failFor map[int64]error
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if err, ok := r.failFor[msg.ChatID]; ok {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func newNotifier(t *testing.T, sender *recordingSender) *Service {
	t.Helper()
	log := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(sender, log, nil,
		config.BotConfig{AdminChatID: 999},
		config.AppConfig{Currency: "₽"},
	)
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func TestOrderPlacedNotifiesBuyerAndAdmin(t *testing.T) {
	sender := &recordingSender{}
	svc := newNotifier(t, sender)
	code := "SALE"
	order := &models.Order{
		OrderNumber:     7,
		UserChatID:      42,
		TotalCents:      200000,
		DiscountPercent: 10,
		FinalTotalCents: 180000,
		PromoCode:       &code,
	}
	items := []models.CartItem{{
		Qty:     2,
		Size:    "M",
		Product: &models.Product{Title: "Худи", PriceCents: 100000},
	}}

	svc.OrderPlaced(context.Background(), order, items)

	require.Len(t, sender.sent, 2)
	buyer, admin := sender.sent[0], sender.sent[1]

	assert.Equal(t, int64(42), buyer.ChatID)
	assert.Contains(t, buyer.Text, "#7")
	assert.Contains(t, buyer.Text, "2000₽")
	assert.Contains(t, buyer.Text, "1800₽")
	assert.Contains(t, buyer.Text, "SALE")

	assert.Equal(t, int64(999), admin.ChatID)
	assert.Contains(t, admin.Text, "Худи — 2 шт., M, 1000₽")
	require.NotEmpty(t, admin.Buttons)
	assert.Equal(t, "aocf:7", admin.Buttons[0][0].Data)
	assert.Equal(t, "aocn:7", admin.Buttons[0][1].Data)
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]error{42: errors.New("blocked")}}
	svc := newNotifier(t, sender)
	order := &models.Order{OrderNumber: 1, UserChatID: 42, TotalCents: 1000, FinalTotalCents: 1000}

	svc.OrderPlaced(context.Background(), order, nil)

	require.Len(t, sender.sent, 1, "admin card still goes out when the buyer is unreachable")
	assert.Equal(t, int64(999), sender.sent[0].ChatID)
}

func TestBroadcastCountsDeliveries(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]error{2: errors.New("blocked")}}
	svc := newNotifier(t, sender)

	sent := svc.Broadcast(context.Background(), []int64{1, 2, 3}, "привет")
	assert.Equal(t, 2, sent)
}

func TestCommissionPaidFormatsAmounts(t *testing.T) {
	sender := &recordingSender{}
	svc := newNotifier(t, sender)
	partner := &models.Partner{UserChatID: 5, CommissionPercent: 5}
	order := &models.Order{FinalTotalCents: 180000}

	svc.CommissionPaid(context.Background(), partner, order, 9000)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "1800₽")
	assert.Contains(t, sender.sent[0].Text, "90₽")
	assert.Contains(t, sender.sent[0].Text, "5%")
}

func TestPartnerApplicationCardTargetsAdmin(t *testing.T) {
	sender := &recordingSender{}
	svc := newNotifier(t, sender)

	svc.PartnerApplication(context.Background(), 51, strPtr("maker"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(999), msg.ChatID)
	assert.Contains(t, msg.Text, "@maker")
	require.NotEmpty(t, msg.Buttons)
	assert.Equal(t, "prapp:51", msg.Buttons[0][0].Data)
	assert.Equal(t, "prrej:51", msg.Buttons[0][1].Data)
}
