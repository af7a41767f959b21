package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/users"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.From.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Prompts win over everything else so the admin can answer with a photo
	// (logo upload) without triggering the product import below.
	if prompt, ok, err := b.state.Get(ctx, chatID, promptScope); err == nil && ok {
		b.handlePrompt(ctx, msg, prompt)
		return
	}

	// Admin forwarding a channel post with a photo imports it as a product.
	if b.isAdmin(chatID) && len(msg.Photo) > 0 {
		b.importForwardedPost(ctx, msg)
		return
	}

	// Free-form text or photos from an invited buyer become a review.
	b.maybeAcceptReview(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.From.ID
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "menu":
		b.showMenu(ctx, chatID)
	case "whoami":
		username := "—"
		if msg.From.UserName != "" {
			username = "@" + msg.From.UserName
		}
		b.send(ctx, msg.Chat.ID, fmt.Sprintf(
			"Твой Telegram ID: <code>%d</code>\nusername: %s", chatID, username), nil)
	case "import":
		if b.isAdmin(chatID) {
			b.send(ctx, msg.Chat.ID, "Перешли сюда пост из канала с фото и текстом, и бот импортнёт товар.", nil)
		}
	case "set_logo":
		if b.isAdmin(chatID) {
			b.setPrompt(ctx, chatID, "set_logo")
			b.send(ctx, msg.Chat.ID, "Пришли фото логотипа одним сообщением.", nil)
		}
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.From.ID

	var referrer *int64
	if payload := strings.TrimSpace(msg.CommandArguments()); payload != "" {
		if id, err := strconv.ParseInt(payload, 10, 64); err == nil {
			referrer = &id
		}
	}

	var username *string
	if msg.From.UserName != "" {
		name := msg.From.UserName
		username = &name
	}
	if err := b.svc.Users.Register(ctx, users.RegisterInput{
		ChatID:         chatID,
		Username:       username,
		ReferrerChatID: referrer,
	}); err != nil {
		b.log.Error(ctx, "register user", err)
	}

	if !b.isAdmin(chatID) && !b.isSubscribed(chatID) {
		b.sendSubscribeGate(ctx, msg.Chat.ID)
		return
	}

	b.send(ctx, msg.Chat.ID,
		"<b>Привет! Ты в официальном боте магазина Inko Shop 👋</b>\n\n"+
			"Каталог, корзина, промокоды и отзывы — всё здесь.",
		nil)
	b.showMenu(ctx, chatID)
}

func (b *Bot) showMenu(ctx context.Context, chatID int64) {
	keyboard := mainMenuKeyboard(b.isAdmin(chatID))
	if banner, err := b.svc.Settings.Banner(ctx, "menu"); err == nil && banner != "" {
		b.sendPhoto(ctx, chatID, banner, "Меню:", &keyboard)
		return
	}
	b.send(ctx, chatID, "Меню:", &keyboard)
}

func (b *Bot) isSubscribed(chatID int64) bool {
	channel := b.cfg.ChannelUsername
	if channel == "" {
		return true
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             chatID,
		},
	})
	if err != nil {
		return false
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func (b *Bot) sendSubscribeGate(ctx context.Context, chatID int64) {
	keyboard := subscribeKeyboard(b.cfg.ChannelUsername)
	b.send(ctx, chatID,
		"⚠️ <b>Подпишись на наш канал, чтобы пользоваться ботом</b>\n\n"+
			"Канал: "+b.cfg.ChannelUsername+"\n\n"+
			"После подписки нажми «Проверить подписку».",
		&keyboard)
}

// setPrompt records what free-text input the bot expects next from the chat.
func (b *Bot) setPrompt(ctx context.Context, chatID int64, prompt string) {
	if err := b.state.Set(ctx, chatID, promptScope, prompt); err != nil {
		b.log.Error(ctx, "save prompt", err)
	}
}

func (b *Bot) clearPrompt(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID, promptScope); err != nil {
		b.log.Error(ctx, "clear prompt", err)
	}
}

func (b *Bot) handlePrompt(ctx context.Context, msg *tgbotapi.Message, prompt string) {
	chatID := msg.From.ID
	b.clearPrompt(ctx, chatID)

	switch {
	case prompt == "promo":
		b.applyPromoInput(ctx, msg)
	case prompt == "search":
		b.runSearch(ctx, msg)
	case prompt == "broadcast" && b.isAdmin(chatID):
		b.runBroadcast(ctx, msg)
	case prompt == "review_invite" && b.isAdmin(chatID):
		b.sendReviewInvite(ctx, msg)
	case prompt == "promo_new" && b.isAdmin(chatID):
		b.createPromoFromInput(ctx, msg)
	case prompt == "set_logo" && b.isAdmin(chatID):
		b.saveLogo(ctx, msg)
	case strings.HasPrefix(prompt, "msg:") && b.isAdmin(chatID):
		b.relayAdminMessage(ctx, msg, strings.TrimPrefix(prompt, "msg:"))
	default:
		b.maybeAcceptReview(ctx, msg)
	}
}

func (b *Bot) applyPromoInput(ctx context.Context, msg *tgbotapi.Message) {
	res, err := b.svc.Promos.SetUserPromo(ctx, msg.From.ID, msg.Text)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			b.send(ctx, msg.Chat.ID, "Промокод не найден или закончился лимит.", nil)
			return
		}
		b.log.Error(ctx, "set user promo", err)
		b.send(ctx, msg.Chat.ID, "Не получилось применить промокод, попробуй позже.", nil)
		return
	}
	keyboard := backKeyboard("sec:menu")
	b.send(ctx, msg.Chat.ID, fmt.Sprintf(
		"✅ Промокод <code>%s</code> активирован.\nСкидка: <b>%d%%</b>\nПрименится при следующей покупке.",
		res.Code, res.Percent), &keyboard)
}

func (b *Bot) runSearch(ctx context.Context, msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.Text)
	products, err := b.svc.Catalog.Search(ctx, query)
	if err != nil || len(products) == 0 {
		keyboard := backKeyboard("sec:menu")
		b.send(ctx, msg.Chat.ID, "Ничего не нашёл 😔 Попробуй другой запрос.", &keyboard)
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("🔎 Нашёл по запросу «%s»:", query))
	for i, p := range products {
		if i >= 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("• <b>%s</b> — %s", p.Title, b.money(p.PriceCents)))
	}
	keyboard := backKeyboard("sec:menu")
	b.send(ctx, msg.Chat.ID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) runBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	targets, err := b.svc.Users.BroadcastTargets(ctx)
	if err != nil {
		b.log.Error(ctx, "broadcast targets", err)
		b.send(ctx, msg.Chat.ID, "Не получилось собрать получателей.", nil)
		return
	}
	sent := b.svc.Notifier.Broadcast(ctx, targets, msg.Text)
	b.send(ctx, msg.Chat.ID, fmt.Sprintf("📣 Рассылка отправлена: %d из %d.", sent, len(targets)), nil)
}

func (b *Bot) sendReviewInvite(ctx context.Context, msg *tgbotapi.Message) {
	raw := strings.TrimPrefix(strings.TrimSpace(msg.Text), "@")
	if raw == "" {
		b.send(ctx, msg.Chat.ID, "Пусто. Введи @username или id.", nil)
		return
	}

	var targetID int64
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		targetID = id
	} else {
		chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: "@" + raw},
		})
		if err != nil {
			b.send(ctx, msg.Chat.ID, fmt.Sprintf("Не нашёл пользователя @%s.", raw), nil)
			return
		}
		targetID = chat.ID
	}

	if err := b.svc.Reviews.Invite(ctx, targetID); err != nil {
		b.log.Error(ctx, "open review invite", err)
		b.send(ctx, msg.Chat.ID, "Не получилось открыть инвайт.", nil)
		return
	}
	b.send(ctx, targetID,
		"✍️ Админ приглашает тебя оставить отзыв.\n\n"+
			"Напиши одним сообщением, что понравилось и как сидит, можно с фото.\n"+
			"Как отправишь — я передам админу на модерацию ✅",
		nil)
	b.send(ctx, msg.Chat.ID, fmt.Sprintf("✅ Инвайт отправлен (id %d).", targetID), nil)
}

func (b *Bot) createPromoFromInput(ctx context.Context, msg *tgbotapi.Message) {
	// Format: CODE PERCENT [MAX_USES]
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		b.send(ctx, msg.Chat.ID, "Формат: <code>КОД ПРОЦЕНТ [ЛИМИТ]</code>", nil)
		return
	}
	percent, err := strconv.Atoi(parts[1])
	if err != nil {
		b.send(ctx, msg.Chat.ID, "Процент должен быть числом.", nil)
		return
	}
	maxUses := 0
	if len(parts) > 2 {
		if maxUses, err = strconv.Atoi(parts[2]); err != nil {
			b.send(ctx, msg.Chat.ID, "Лимит должен быть числом.", nil)
			return
		}
	}

	promo, err := b.svc.Promos.Create(ctx, promos.CreateCodeInput{
		Code:            parts[0],
		DiscountPercent: percent,
		MaxUses:         maxUses,
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeConflict) {
			b.send(ctx, msg.Chat.ID, "Такой код уже существует.", nil)
			return
		}
		b.send(ctx, msg.Chat.ID, "Не получилось создать код: проверь формат.", nil)
		return
	}
	b.send(ctx, msg.Chat.ID, fmt.Sprintf(
		"✅ Код <code>%s</code> создан: %d%%, лимит %s.",
		promo.Code, promo.DiscountPercent, promoLimit(promo.MaxUses)), nil)
}

func (b *Bot) saveLogo(ctx context.Context, msg *tgbotapi.Message) {
	if len(msg.Photo) == 0 {
		b.send(ctx, msg.Chat.ID, "Это не фото.", nil)
		return
	}
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	if err := b.svc.Settings.SetLogo(ctx, fileID); err != nil {
		b.log.Error(ctx, "save logo", err)
		b.send(ctx, msg.Chat.ID, "Не получилось сохранить логотип.", nil)
		return
	}
	b.send(ctx, msg.Chat.ID, "✅ Логотип сохранён!", nil)
}

func (b *Bot) relayAdminMessage(ctx context.Context, msg *tgbotapi.Message, rawTarget string) {
	targetID, err := strconv.ParseInt(rawTarget, 10, 64)
	if err != nil {
		return
	}
	b.send(ctx, targetID, "💬 Сообщение от администратора:\n\n"+msg.Text, nil)
	b.send(ctx, msg.Chat.ID, "✅ Отправлено.", nil)
}

func (b *Bot) maybeAcceptReview(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.From.ID
	if b.isAdmin(chatID) {
		return
	}
	ok, err := b.svc.Reviews.CanSubmit(ctx, chatID)
	if err != nil || !ok {
		return
	}

	var photos []string
	if len(msg.Photo) > 0 {
		photos = append(photos, msg.Photo[len(msg.Photo)-1].FileID)
	}
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	review, err := b.svc.Reviews.Submit(ctx, chatID, text, photos)
	if err != nil {
		b.log.Error(ctx, "submit review", err)
		return
	}
	keyboard := backKeyboard("sec:menu")
	b.send(ctx, msg.Chat.ID, "✅ Спасибо! Отзыв отправлен админу на модерацию.", &keyboard)

	moderation := reviewModerationKeyboard(review.ID.String())
	card := fmt.Sprintf("🆕 <b>Новый отзыв</b>\nОт пользователя: <code>%d</code>\n\n%s", chatID, review.Text)
	if len(review.PhotoFileIDs) > 0 {
		b.sendPhoto(ctx, b.cfg.AdminChatID, review.PhotoFileIDs[0], card, &moderation)
		return
	}
	b.send(ctx, b.cfg.AdminChatID, card, &moderation)
}

func (b *Bot) importForwardedPost(ctx context.Context, msg *tgbotapi.Message) {
	caption := msg.Caption
	if caption == "" {
		b.send(ctx, msg.Chat.ID, "Нужен пост с подписью (описанием).", nil)
		return
	}
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	product, err := b.svc.Catalog.ImportPost(ctx, caption, []string{fileID})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeValidation) {
			b.send(ctx, msg.Chat.ID, "❗️ Не нашёл цену. Укажи число перед ₽ или р.", nil)
			return
		}
		b.log.Error(ctx, "import product", err)
		b.send(ctx, msg.Chat.ID, "Не получилось импортировать товар.", nil)
		return
	}

	categoryName := ""
	if product.Category != nil {
		categoryName = product.Category.Name
	}
	b.sendPhoto(ctx, msg.Chat.ID, fileID, fmt.Sprintf(
		"✅ Импортировано:\n<b>%s</b>\nКатегория: <b>%s</b>\nЦена: <b>%s</b>",
		product.Title, categoryName, b.money(product.PriceCents)), nil)
}

func promoLimit(maxUses int) string {
	if maxUses <= 0 {
		return "∞"
	}
	return strconv.Itoa(maxUses)
}
