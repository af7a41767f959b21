package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/cart"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/checkout"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/favorites"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/sessions"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/settings"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/users"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

// promptScope is the session key holding what free-text input the bot is
// waiting for from a chat.
const promptScope = "prompt"

// Services bundles everything the conversation layer drives.
type Services struct {
	Users     *users.Service
	Catalog   *catalog.Service
	Cart      *cart.Service
	Favorites *favorites.Service
	Promos    *promos.Service
	Partners  *partners.Service
	Checkout  *checkout.Service
	Orders    *orders.Service
	Reviews   *reviews.Service
	Settings  *settings.Service
	Notifier  *notifications.Service
}

// Bot is the chat transport: it consumes updates sequentially and routes them
// to the domain services.
type Bot struct {
	api      api
	cfg      config.BotConfig
	currency string
	log      *logger.Logger
	state    sessions.Store
	svc      Services
}

// New wires the conversation layer.
func New(api api, cfg config.BotConfig, appCfg config.AppConfig, log *logger.Logger, state sessions.Store, svc Services) (*Bot, error) {
	if api == nil {
		return nil, fmt.Errorf("bot api required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if state == nil {
		return nil, fmt.Errorf("session store required")
	}
	if svc.Users == nil || svc.Catalog == nil || svc.Cart == nil || svc.Favorites == nil ||
		svc.Promos == nil || svc.Partners == nil || svc.Checkout == nil || svc.Orders == nil ||
		svc.Reviews == nil || svc.Settings == nil || svc.Notifier == nil {
		return nil, fmt.Errorf("all services required")
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		currency: appCfg.Currency,
		log:      log,
		state:    state,
		svc:      svc,
	}, nil
}

// Run consumes the update channel until the context is cancelled. Updates are
// handled one at a time; a panic in a handler is logged and the loop continues.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(ctx, "update handler panic", fmt.Errorf("%v", r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(b.log.WithChatID(ctx, update.CallbackQuery.From.ID), update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(b.log.WithChatID(ctx, update.Message.From.ID), update.Message)
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	return chatID == b.cfg.AdminChatID
}

// send delivers an HTML message, logging delivery failures instead of
// propagating them.
func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error(b.log.WithChatID(ctx, chatID), "send failed", err)
	}
}

func (b *Bot) sendPhoto(ctx context.Context, chatID int64, fileID, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		photo.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error(b.log.WithChatID(ctx, chatID), "send photo failed", err)
	}
}

func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Error(context.Background(), "answer callback failed", err)
	}
}

func (b *Bot) money(cents int) string {
	amount := decimal.New(int64(cents), -2)
	if amount.IsInteger() {
		return amount.StringFixed(0) + b.currency
	}
	return amount.StringFixed(2) + b.currency
}
