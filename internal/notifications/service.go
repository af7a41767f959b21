package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/metrics"
)

// Service fans order and partner events out to the buyer, the admin, and the
// partner. Delivery failures are logged and counted but never propagate: the
// state transition that produced the event has already committed.
type Service struct {
	sender   Sender
	log      *logger.Logger
	metrics  *metrics.ShopMetrics
	admin    int64
	currency string
}

// NewService wires the notification fan-out.
func NewService(sender Sender, log *logger.Logger, m *metrics.ShopMetrics, botCfg config.BotConfig, appCfg config.AppConfig) (*Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		sender:   sender,
		log:      log,
		metrics:  m,
		admin:    botCfg.AdminChatID,
		currency: appCfg.Currency,
	}, nil
}

// OrderPlaced sends the buyer receipt and the admin moderation card.
func (s *Service) OrderPlaced(ctx context.Context, order *models.Order, items []models.CartItem) {
	s.deliver(ctx, enums.NotificationBuyerReceipt, Message{
		ChatID: order.UserChatID,
		Text:   s.buyerReceipt(order),
	})
	s.deliver(ctx, enums.NotificationAdminOrder, Message{
		ChatID: s.admin,
		Text:   s.adminOrderCard(order, items),
		Buttons: [][]Button{
			{
				{Label: "✅ Подтвердить", Data: fmt.Sprintf("aocf:%d", order.OrderNumber)},
				{Label: "❌ Отклонить", Data: fmt.Sprintf("aocn:%d", order.OrderNumber)},
			},
			{
				{Label: "💬 Написать клиенту", Data: fmt.Sprintf("msg:%d", order.UserChatID)},
			},
		},
	})
}

// OrderConfirmed tells the buyer the admin accepted the order.
func (s *Service) OrderConfirmed(ctx context.Context, order *models.Order) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: order.UserChatID,
		Text:   fmt.Sprintf("✅ Заказ #%d подтверждён админом.", order.OrderNumber),
	})
}

// OrderRejected tells the buyer the admin declined the order.
func (s *Service) OrderRejected(ctx context.Context, order *models.Order) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: order.UserChatID,
		Text:   fmt.Sprintf("❌ Заказ #%d отклонён.", order.OrderNumber),
	})
}

// DeliveryStatusChanged pings the buyer with the new delivery status.
func (s *Service) DeliveryStatusChanged(ctx context.Context, order *models.Order) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: order.UserChatID,
		Text:   fmt.Sprintf("🔔 Статус заказа #%d: <b>%s</b>", order.OrderNumber, order.Status),
	})
}

// CommissionPaid tells the partner a purchase with their code was confirmed.
func (s *Service) CommissionPaid(ctx context.Context, partner *models.Partner, order *models.Order, commissionCents int) {
	s.deliver(ctx, enums.NotificationPartnerCommission, Message{
		ChatID: partner.UserChatID,
		Text: fmt.Sprintf(
			"💸 По твоему промокоду подтверждена покупка!\n"+
				"Сумма после скидки: <b>%s</b>\n"+
				"Твоя комиссия %d%%: <b>%s</b>\n"+
				"Баланс обновлён ✅",
			s.money(order.FinalTotalCents), partner.CommissionPercent, s.money(commissionCents),
		),
	})
}

// PartnerApplication shows the admin a fresh partnership application.
func (s *Service) PartnerApplication(ctx context.Context, chatID int64, username *string) {
	name := "—"
	if username != nil && *username != "" {
		name = "@" + *username
	}
	s.deliver(ctx, enums.NotificationAdminOrder, Message{
		ChatID: s.admin,
		Text: fmt.Sprintf(
			"🤝 <b>Новая заявка на партнёрство</b>\nПользователь: <a href='tg://user?id=%d'>%d</a>\n%s",
			chatID, chatID, name,
		),
		Buttons: [][]Button{{
			{Label: "✅ Одобрить", Data: fmt.Sprintf("prapp:%d", chatID)},
			{Label: "❌ Отклонить", Data: fmt.Sprintf("prrej:%d", chatID)},
		}},
	})
}

// PartnershipApproved hands the partner their new code.
func (s *Service) PartnershipApproved(ctx context.Context, chatID int64, code string, discountPercent, commissionPercent int) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"🎉 Тебе одобрен партнёрский промокод!\n\n"+
				"Твой код: <code>%s</code>\n"+
				"Скидка клиенту: <b>%d%%</b>\n"+
				"Твоя комиссия: <b>%d%%</b> от суммы после скидки",
			code, discountPercent, commissionPercent,
		),
	})
}

// PartnershipRejected tells the applicant the request was declined.
func (s *Service) PartnershipRejected(ctx context.Context, chatID int64) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: chatID,
		Text:   "К сожалению, заявка на партнёрство отклонена.",
	})
}

// ReviewBonus hands the reviewer a single-use thank-you code.
func (s *Service) ReviewBonus(ctx context.Context, chatID int64, code string, percent int) {
	s.deliver(ctx, enums.NotificationOrderStatus, Message{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"🎁 Спасибо за отзыв! Твой промокод на %d%%: <code>%s</code>\nОн сработает один раз.",
			percent, code,
		),
	})
}

// Broadcast sends the text to every chat id and reports how many deliveries
// succeeded.
func (s *Service) Broadcast(ctx context.Context, chatIDs []int64, text string) int {
	sent := 0
	for _, chatID := range chatIDs {
		if s.deliver(ctx, enums.NotificationBroadcast, Message{ChatID: chatID, Text: text}) {
			sent++
		}
	}
	return sent
}

func (s *Service) deliver(ctx context.Context, kind enums.NotificationKind, msg Message) bool {
	err := s.sender.Send(ctx, msg)
	if err != nil {
		s.metrics.IncNotification(string(kind), "error")
		ctx = s.log.WithChatID(ctx, msg.ChatID)
		s.log.Error(ctx, fmt.Sprintf("notification %s failed", kind), err)
		return false
	}
	s.metrics.IncNotification(string(kind), "ok")
	return true
}

func (s *Service) buyerReceipt(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Заказ <b>#%d</b> оформлен!\n", order.OrderNumber)
	fmt.Fprintf(&b, "Сумма: <b>%s</b>\n", s.money(order.TotalCents))
	if order.DiscountPercent > 0 && order.PromoCode != nil {
		fmt.Fprintf(&b, "Промокод: <code>%s</code>\n", *order.PromoCode)
		fmt.Fprintf(&b, "Скидка: <b>%d%%</b>\n", order.DiscountPercent)
	}
	fmt.Fprintf(&b, "К оплате: <b>%s</b>\n", s.money(order.FinalTotalCents))
	b.WriteString("\nАдмин свяжется с тобой.")
	return b.String()
}

func (s *Service) adminOrderCard(order *models.Order, items []models.CartItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 <b>Новый заказ #%d</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Покупатель: <a href='tg://user?id=%d'>%d</a>\n\n", order.UserChatID, order.UserChatID)
	for _, item := range items {
		title := "?"
		price := 0
		if item.Product != nil {
			title = item.Product.Title
			price = item.Product.PriceCents
		}
		fmt.Fprintf(&b, "%s — %d шт., %s, %s\n", title, item.Qty, item.Size, s.money(price))
	}
	fmt.Fprintf(&b, "\nСумма: <b>%s</b>\n", s.money(order.TotalCents))
	if order.DiscountPercent > 0 && order.PromoCode != nil {
		fmt.Fprintf(&b, "Скидка: %d%% по <code>%s</code>\n", order.DiscountPercent, *order.PromoCode)
	}
	fmt.Fprintf(&b, "Итог: <b>%s</b>", s.money(order.FinalTotalCents))
	return b.String()
}

// money renders cents as a whole or fractional amount with the currency glyph.
func (s *Service) money(cents int) string {
	amount := decimal.New(int64(cents), -2)
	if amount.IsInteger() {
		return amount.StringFixed(0) + s.currency
	}
	return amount.StringFixed(2) + s.currency
}
