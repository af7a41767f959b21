package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/cart"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	pkgerrors "github.com/kartosvlad459-art/inko-shop-bot/pkg/errors"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.From.ID
	data := cq.Data

	switch {
	case data == "noop":
		b.answerCallback(cq, "")
	case data == "sub:check":
		b.checkSubscription(ctx, cq)
	case strings.HasPrefix(data, "sec:"):
		b.answerCallback(cq, "")
		b.openSection(ctx, chatID, strings.TrimPrefix(data, "sec:"))
	case strings.HasPrefix(data, "cat:"):
		b.answerCallback(cq, "")
		b.openCategory(ctx, chatID, strings.TrimPrefix(data, "cat:"), 0)
	case strings.HasPrefix(data, "pnav:"):
		b.answerCallback(cq, "")
		parts := strings.Split(strings.TrimPrefix(data, "pnav:"), ":")
		if len(parts) != 2 {
			return
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}
		b.openCategory(ctx, chatID, parts[0], idx)
	case strings.HasPrefix(data, "size:"):
		b.addToCart(ctx, cq, strings.TrimPrefix(data, "size:"))
	case strings.HasPrefix(data, "fav:"):
		b.toggleFavorite(ctx, cq, strings.TrimPrefix(data, "fav:"))
	case strings.HasPrefix(data, "cqty:"):
		b.adjustCartQty(ctx, cq, strings.TrimPrefix(data, "cqty:"))
	case strings.HasPrefix(data, "cdel:"):
		b.removeCartItem(ctx, cq, strings.TrimPrefix(data, "cdel:"))
	case data == "cart:clear":
		if err := b.svc.Cart.Clear(ctx, chatID); err != nil {
			b.log.Error(ctx, "clear cart", err)
		}
		b.answerCallback(cq, "Корзина очищена")
		b.showCart(ctx, chatID)
	case data == "cart:checkout":
		b.runCheckout(ctx, cq)
	case data == "promo:enter":
		b.answerCallback(cq, "")
		b.setPrompt(ctx, chatID, "promo")
		b.send(ctx, chatID, "Введи промокод одним сообщением:", nil)
	case data == "promo:clear":
		if err := b.svc.Promos.ClearUserPromo(ctx, chatID); err != nil {
			b.log.Error(ctx, "clear user promo", err)
		}
		b.answerCallback(cq, "Промокод сброшен")
		b.openSection(ctx, chatID, "promo")
	case data == "partner:apply":
		b.applyPartner(ctx, cq)
	case strings.HasPrefix(data, "aocf:"):
		b.decideOrder(ctx, cq, strings.TrimPrefix(data, "aocf:"), true)
	case strings.HasPrefix(data, "aocn:"):
		b.decideOrder(ctx, cq, strings.TrimPrefix(data, "aocn:"), false)
	case strings.HasPrefix(data, "msg:"):
		if !b.isAdmin(chatID) {
			b.answerCallback(cq, "")
			return
		}
		b.answerCallback(cq, "")
		b.setPrompt(ctx, chatID, data)
		b.send(ctx, chatID, "Напиши сообщение для покупателя:", nil)
	case strings.HasPrefix(data, "ordm:"):
		b.openDeliveryMenu(ctx, cq, strings.TrimPrefix(data, "ordm:"))
	case strings.HasPrefix(data, "ost:"):
		b.setDeliveryStatus(ctx, cq, strings.TrimPrefix(data, "ost:"))
	case strings.HasPrefix(data, "prapp:"):
		b.decidePartner(ctx, cq, strings.TrimPrefix(data, "prapp:"), true)
	case strings.HasPrefix(data, "prrej:"):
		b.decidePartner(ctx, cq, strings.TrimPrefix(data, "prrej:"), false)
	case strings.HasPrefix(data, "revapp:"):
		b.decideReview(ctx, cq, strings.TrimPrefix(data, "revapp:"), true)
	case strings.HasPrefix(data, "revrej:"):
		b.decideReview(ctx, cq, strings.TrimPrefix(data, "revrej:"), false)
	case strings.HasPrefix(data, "pdel:"):
		b.deletePromo(ctx, cq, strings.TrimPrefix(data, "pdel:"))
	case strings.HasPrefix(data, "adm:"):
		b.openAdminSection(ctx, cq, strings.TrimPrefix(data, "adm:"))
	default:
		b.answerCallback(cq, "")
	}
}

func (b *Bot) checkSubscription(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.From.ID
	if !b.isSubscribed(chatID) {
		b.answerCallback(cq, "Подписка не найдена 😕")
		return
	}
	b.answerCallback(cq, "Спасибо за подписку!")
	b.showMenu(ctx, chatID)
}

func (b *Bot) openSection(ctx context.Context, chatID int64, section string) {
	switch section {
	case "menu":
		b.showMenu(ctx, chatID)
	case "catalog":
		b.showCatalog(ctx, chatID)
	case "search":
		b.setPrompt(ctx, chatID, "search")
		keyboard := backKeyboard("sec:menu")
		b.send(ctx, chatID, "🧠 Что ищем? Напиши название товара:", &keyboard)
	case "cart":
		b.showCart(ctx, chatID)
	case "favs":
		b.showFavorites(ctx, chatID)
	case "profile":
		b.showProfile(ctx, chatID)
	case "reviews":
		b.showReviews(ctx, chatID)
	case "promo":
		b.showPromoSection(ctx, chatID)
	case "admin":
		if !b.isAdmin(chatID) {
			return
		}
		keyboard := adminMenuKeyboard()
		b.send(ctx, chatID, "🛠 <b>Админка</b>", &keyboard)
	}
}

func (b *Bot) showCatalog(ctx context.Context, chatID int64) {
	categories, err := b.svc.Catalog.Categories(ctx)
	if err != nil {
		b.log.Error(ctx, "list categories", err)
		return
	}
	if len(categories) == 0 {
		keyboard := backKeyboard("sec:menu")
		b.send(ctx, chatID, "Каталог пока пуст 😔", &keyboard)
		return
	}
	keyboard := categoriesKeyboard(categories)
	if banner, err := b.svc.Settings.Banner(ctx, "catalog"); err == nil && banner != "" {
		b.sendPhoto(ctx, chatID, banner, "Выбери категорию:", &keyboard)
		return
	}
	b.send(ctx, chatID, "Выбери категорию:", &keyboard)
}

func (b *Bot) openCategory(ctx context.Context, chatID int64, rawCategoryID string, idx int) {
	categoryID, err := uuid.Parse(rawCategoryID)
	if err != nil {
		return
	}
	products, err := b.svc.Catalog.Products(ctx, categoryID)
	if err != nil {
		b.log.Error(ctx, "list products", err)
		return
	}
	if len(products) == 0 {
		keyboard := backKeyboard("sec:catalog")
		b.send(ctx, chatID, "В этой категории пока пусто.", &keyboard)
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(products) {
		idx = len(products) - 1
	}

	product := &products[idx]
	caption := fmt.Sprintf("<b>%s</b>\n\n%s\n\nЦена: <b>%s</b>",
		product.Title, product.Description, b.money(product.PriceCents))
	if product.IsPreorder {
		caption += "\n\n⏳ <i>Предзаказ</i>"
	}

	keyboard := productKeyboard(product, rawCategoryID, idx, len(products))
	if len(product.PhotoFileIDs) > 0 {
		b.sendPhoto(ctx, chatID, product.PhotoFileIDs[0], caption, &keyboard)
		return
	}
	b.send(ctx, chatID, caption, &keyboard)
}

func (b *Bot) addToCart(ctx context.Context, cq *tgbotapi.CallbackQuery, payload string) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		b.answerCallback(cq, "")
		return
	}
	productID, err := uuid.Parse(parts[0])
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if err := b.svc.Cart.Add(ctx, cq.From.ID, productID, parts[1]); err != nil {
		b.log.Error(ctx, "add to cart", err)
		b.answerCallback(cq, "Не получилось добавить 😕")
		return
	}
	b.answerCallback(cq, fmt.Sprintf("Добавлено в корзину (%s) ✅", parts[1]))
}

func (b *Bot) toggleFavorite(ctx context.Context, cq *tgbotapi.CallbackQuery, rawID string) {
	productID, err := uuid.Parse(rawID)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	added, err := b.svc.Favorites.Toggle(ctx, cq.From.ID, productID)
	if err != nil {
		b.log.Error(ctx, "toggle favorite", err)
		b.answerCallback(cq, "Ошибка 😕")
		return
	}
	if added {
		b.answerCallback(cq, "Добавлено в избранное ⭐️")
		return
	}
	b.answerCallback(cq, "Убрано из избранного")
}

func (b *Bot) showCart(ctx context.Context, chatID int64) {
	items, err := b.svc.Cart.List(ctx, chatID)
	if err != nil {
		b.log.Error(ctx, "list cart", err)
		return
	}
	if len(items) == 0 {
		keyboard := backKeyboard("sec:menu")
		b.send(ctx, chatID, "🧺 Корзина пустая.", &keyboard)
		return
	}

	var lines []string
	lines = append(lines, "🧺 <b>Твоя корзина:</b>\n")
	for i, item := range items {
		title := "товар"
		price := 0
		if item.Product != nil {
			title = item.Product.Title
			price = item.Product.PriceCents
		}
		lines = append(lines, fmt.Sprintf("%d. <b>%s</b> (%s) × %d = %s",
			i+1, title, item.Size, item.Qty, b.money(price*item.Qty)))
	}
	lines = append(lines, fmt.Sprintf("\nИтого: <b>%s</b>", b.money(cart.TotalCents(items))))
	if saved, err := b.svc.Promos.UserPromo(ctx, chatID); err == nil && saved.Code != "" {
		lines = append(lines, fmt.Sprintf("Промокод: <code>%s</code> (−%d%%)", saved.Code, saved.Percent))
	}

	keyboard := cartKeyboard(items)
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) adjustCartQty(ctx context.Context, cq *tgbotapi.CallbackQuery, payload string) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		b.answerCallback(cq, "")
		return
	}
	itemID, err := uuid.Parse(parts[0])
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	delta, err := strconv.Atoi(parts[1])
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if err := b.svc.Cart.AdjustQty(ctx, itemID, delta); err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		b.log.Error(ctx, "adjust cart qty", err)
	}
	b.answerCallback(cq, "")
	b.showCart(ctx, cq.From.ID)
}

func (b *Bot) removeCartItem(ctx context.Context, cq *tgbotapi.CallbackQuery, rawID string) {
	itemID, err := uuid.Parse(rawID)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if err := b.svc.Cart.Remove(ctx, itemID); err != nil {
		b.log.Error(ctx, "remove cart item", err)
	}
	b.answerCallback(cq, "Убрано")
	b.showCart(ctx, cq.From.ID)
}

func (b *Bot) runCheckout(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	order, err := b.svc.Checkout.Execute(ctx, cq.From.ID)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeValidation) {
			b.answerCallback(cq, "Корзина пустая.")
			return
		}
		b.log.Error(ctx, "checkout", err)
		b.answerCallback(cq, "Не получилось оформить заказ 😕")
		return
	}
	b.answerCallback(cq, fmt.Sprintf("Заказ №%d оформлен ✅", order.OrderNumber))
}

func (b *Bot) showFavorites(ctx context.Context, chatID int64) {
	items, err := b.svc.Favorites.List(ctx, chatID)
	if err != nil {
		b.log.Error(ctx, "list favorites", err)
		return
	}
	keyboard := backKeyboard("sec:menu")
	if len(items) == 0 {
		b.send(ctx, chatID, "⭐️ В избранном пока пусто.", &keyboard)
		return
	}

	var lines []string
	lines = append(lines, "⭐️ <b>Избранное:</b>\n")
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("• <b>%s</b> — %s", item.Product.Title, b.money(item.Product.PriceCents)))
	}
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) showProfile(ctx context.Context, chatID int64) {
	var lines []string
	lines = append(lines, "👤 <b>Профиль</b>\n")
	lines = append(lines, fmt.Sprintf("Твой ID: <code>%d</code>", chatID))

	if stats, err := b.svc.Users.Stats(ctx, chatID); err == nil {
		lines = append(lines, fmt.Sprintf("\n🔗 Приглашено друзей: <b>%d/%d</b>", stats.Count, stats.Cap))
		lines = append(lines, fmt.Sprintf("Твоя реферальная ссылка:\nhttps://t.me/%s?start=%d", b.cfg.Username, chatID))
	}

	if orders, err := b.svc.Orders.ListForUser(ctx, chatID); err == nil && len(orders) > 0 {
		lines = append(lines, "\n📦 <b>Твои заказы:</b>")
		for i, order := range orders {
			if i >= 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("Заказ №%d — %s — %s",
				order.OrderNumber, b.money(order.FinalTotalCents), orderStatusLabel(order.Status)))
		}
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	partner, err := b.svc.Partners.Profile(ctx, chatID)
	if err == nil {
		lines = append(lines, fmt.Sprintf(
			"\n🤝 <b>Партнёрка</b>\nТвой код: <code>%s</code>\nСкидка друзьям: %d%%, твой процент: %d%%\nБаланс: <b>%s</b>\nВсего заработано: %s\nПодтверждённых продаж: %d",
			partner.Code, partner.DiscountPercent, partner.CommissionPercent,
			b.money(partner.BalanceCents), b.money(partner.TotalEarnedCents), partner.ConfirmedUses))
	} else if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤝 Стать партнёром", "partner:apply"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("sec:menu")))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) showReviews(ctx context.Context, chatID int64) {
	reviews, err := b.svc.Reviews.Approved(ctx)
	if err != nil {
		b.log.Error(ctx, "list reviews", err)
		return
	}
	keyboard := backKeyboard("sec:menu")
	if len(reviews) == 0 {
		b.send(ctx, chatID, "📝 Отзывов пока нет, будь первым!", &keyboard)
		return
	}
	var lines []string
	lines = append(lines, "📝 <b>Отзывы покупателей:</b>\n")
	for i, review := range reviews {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("💬 %s\n", review.Text))
	}
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) showPromoSection(ctx context.Context, chatID int64) {
	var lines []string
	lines = append(lines, "🏷 <b>Промокод</b>\n")
	saved, err := b.svc.Promos.UserPromo(ctx, chatID)
	if err == nil && saved.Code != "" {
		lines = append(lines, fmt.Sprintf("Активный код: <code>%s</code> (−%d%%)", saved.Code, saved.Percent))
	} else {
		lines = append(lines, "Активного кода нет.")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Ввести код", "promo:enter"),
		),
	}
	if saved.Code != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Сбросить", "promo:clear"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("sec:menu")))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) applyPartner(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.From.ID
	var username *string
	if cq.From.UserName != "" {
		name := cq.From.UserName
		username = &name
	}
	outcome, err := b.svc.Partners.Apply(ctx, chatID, username)
	if err != nil {
		b.log.Error(ctx, "partner apply", err)
		b.answerCallback(cq, "Ошибка, попробуй позже.")
		return
	}
	switch outcome {
	case partners.ApplyAlreadyPartner:
		b.answerCallback(cq, "Ты уже партнёр 🤝")
	case partners.ApplyAlreadyPending:
		b.answerCallback(cq, "Заявка уже на рассмотрении.")
	default:
		b.answerCallback(cq, "Заявка отправлена ✅")
		b.svc.Notifier.PartnerApplication(ctx, chatID, username)
	}
}

func (b *Bot) decideOrder(ctx context.Context, cq *tgbotapi.CallbackQuery, rawNumber string, confirm bool) {
	number, err := strconv.ParseInt(rawNumber, 10, 64)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if confirm {
		err = b.svc.Orders.Confirm(ctx, cq.From.ID, number)
	} else {
		err = b.svc.Orders.Reject(ctx, cq.From.ID, number)
	}
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeForbidden) {
			b.answerCallback(cq, "")
			return
		}
		b.log.Error(ctx, "decide order", err)
		b.answerCallback(cq, "Ошибка 😕")
		return
	}
	if confirm {
		b.answerCallback(cq, fmt.Sprintf("Заказ №%d подтверждён ✅", number))
		keyboard := deliveryStatusKeyboard(number)
		b.send(ctx, cq.From.ID, fmt.Sprintf("Статус доставки для заказа №%d:", number), &keyboard)
		return
	}
	b.answerCallback(cq, fmt.Sprintf("Заказ №%d отклонён ❌", number))
}

func (b *Bot) openDeliveryMenu(ctx context.Context, cq *tgbotapi.CallbackQuery, rawNumber string) {
	if !b.isAdmin(cq.From.ID) {
		b.answerCallback(cq, "")
		return
	}
	number, err := strconv.ParseInt(rawNumber, 10, 64)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	b.answerCallback(cq, "")
	keyboard := deliveryStatusKeyboard(number)
	b.send(ctx, cq.From.ID, fmt.Sprintf("Статус доставки для заказа №%d:", number), &keyboard)
}

func (b *Bot) setDeliveryStatus(ctx context.Context, cq *tgbotapi.CallbackQuery, payload string) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		b.answerCallback(cq, "")
		return
	}
	number, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	status, err := enums.ParseOrderStatus(parts[1])
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if err := b.svc.Orders.SetDeliveryStatus(ctx, cq.From.ID, number, status); err != nil {
		if !pkgerrors.Is(err, pkgerrors.CodeForbidden) {
			b.log.Error(ctx, "set delivery status", err)
		}
		b.answerCallback(cq, "")
		return
	}
	b.answerCallback(cq, "Статус обновлён: "+orderStatusLabel(status))
}

func (b *Bot) decidePartner(ctx context.Context, cq *tgbotapi.CallbackQuery, rawChatID string, approve bool) {
	if !b.isAdmin(cq.From.ID) {
		b.answerCallback(cq, "")
		return
	}
	targetID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}

	if !approve {
		if err := b.svc.Partners.Reject(ctx, targetID); err != nil {
			b.log.Error(ctx, "reject partner", err)
			b.answerCallback(cq, "Ошибка 😕")
			return
		}
		b.answerCallback(cq, "Заявка отклонена")
		b.svc.Notifier.PartnershipRejected(ctx, targetID)
		return
	}

	var username *string
	if chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: targetID},
	}); err == nil && chat.UserName != "" {
		name := chat.UserName
		username = &name
	}
	approval, err := b.svc.Partners.Approve(ctx, targetID, username)
	if err != nil {
		b.log.Error(ctx, "approve partner", err)
		b.answerCallback(cq, "Ошибка 😕")
		return
	}
	b.answerCallback(cq, "Партнёр одобрен: "+approval.Code)
	b.svc.Notifier.PartnershipApproved(ctx, targetID, approval.Code, approval.DiscountPercent, approval.CommissionPercent)
}

func (b *Bot) decideReview(ctx context.Context, cq *tgbotapi.CallbackQuery, rawID string, approve bool) {
	if !b.isAdmin(cq.From.ID) {
		b.answerCallback(cq, "")
		return
	}
	reviewID, err := uuid.Parse(rawID)
	if err != nil {
		b.answerCallback(cq, "")
		return
	}
	if approve {
		if _, err := b.svc.Reviews.Approve(ctx, reviewID); err != nil {
			b.log.Error(ctx, "approve review", err)
			b.answerCallback(cq, "Ошибка 😕")
			return
		}
		b.answerCallback(cq, "Отзыв принят ✅")
		return
	}
	if err := b.svc.Reviews.Reject(ctx, reviewID); err != nil {
		b.log.Error(ctx, "reject review", err)
		b.answerCallback(cq, "Ошибка 😕")
		return
	}
	b.answerCallback(cq, "Отзыв отклонён")
}

func (b *Bot) deletePromo(ctx context.Context, cq *tgbotapi.CallbackQuery, code string) {
	if !b.isAdmin(cq.From.ID) {
		b.answerCallback(cq, "")
		return
	}
	if err := b.svc.Promos.Delete(ctx, code); err != nil {
		b.log.Error(ctx, "delete promo", err)
		b.answerCallback(cq, "Ошибка 😕")
		return
	}
	b.answerCallback(cq, "Код удалён")
	b.showAdminPromos(ctx, cq.From.ID)
}

func (b *Bot) openAdminSection(ctx context.Context, cq *tgbotapi.CallbackQuery, section string) {
	chatID := cq.From.ID
	if !b.isAdmin(chatID) {
		b.answerCallback(cq, "")
		return
	}
	b.answerCallback(cq, "")

	switch section {
	case "orders":
		b.showAdminOrders(ctx, chatID)
	case "promos":
		b.showAdminPromos(ctx, chatID)
	case "promo_new":
		b.setPrompt(ctx, chatID, "promo_new")
		b.send(ctx, chatID, "Формат: <code>КОД ПРОЦЕНТ [ЛИМИТ]</code>\nНапример: <code>SALE10 10 100</code>", nil)
	case "review_invite":
		b.setPrompt(ctx, chatID, "review_invite")
		b.send(ctx, chatID, "Кого пригласить на отзыв? Введи @username или id:", nil)
	case "reviews_pending":
		b.showPendingReviews(ctx, chatID)
	case "broadcast":
		b.setPrompt(ctx, chatID, "broadcast")
		b.send(ctx, chatID, "Введи текст рассылки одним сообщением:", nil)
	case "stats":
		b.showAdminStats(ctx, chatID)
	}
}

func (b *Bot) showAdminOrders(ctx context.Context, chatID int64) {
	orders, err := b.svc.Orders.Recent(ctx, 10)
	if err != nil {
		b.log.Error(ctx, "list recent orders", err)
		return
	}
	if len(orders) == 0 {
		keyboard := backKeyboard("sec:admin")
		b.send(ctx, chatID, "Заказов пока нет.", &keyboard)
		return
	}

	var lines []string
	var rows [][]tgbotapi.InlineKeyboardButton
	lines = append(lines, "📦 <b>Последние заказы:</b>\n")
	for _, order := range orders {
		lines = append(lines, fmt.Sprintf("Заказ №%d — %s — %s",
			order.OrderNumber, b.money(order.FinalTotalCents), orderStatusLabel(order.Status)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🚚 Статус №%d", order.OrderNumber),
				fmt.Sprintf("ordm:%d", order.OrderNumber),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("sec:admin")))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) showAdminPromos(ctx context.Context, chatID int64) {
	promos, err := b.svc.Promos.List(ctx)
	if err != nil {
		b.log.Error(ctx, "list promo codes", err)
		return
	}

	var lines []string
	lines = append(lines, "🏷 <b>Промокоды:</b>\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, promo := range promos {
		lines = append(lines, fmt.Sprintf("<code>%s</code> — %d%%, использован %d/%s, подтверждено %d",
			promo.Code, promo.DiscountPercent, promo.Used, promoLimit(promo.MaxUses), promo.ConfirmedUses))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+promo.Code, "pdel:"+promo.Code),
		))
	}
	if len(promos) == 0 {
		lines = append(lines, "Пока нет ни одного кода.")
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Создать", "adm:promo_new")),
		tgbotapi.NewInlineKeyboardRow(backButton("sec:admin")),
	)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func (b *Bot) showPendingReviews(ctx context.Context, chatID int64) {
	pending, err := b.svc.Reviews.Pending(ctx)
	if err != nil {
		b.log.Error(ctx, "list pending reviews", err)
		return
	}
	if len(pending) == 0 {
		keyboard := backKeyboard("sec:admin")
		b.send(ctx, chatID, "Непринятых отзывов нет ✅", &keyboard)
		return
	}
	for _, review := range pending {
		keyboard := reviewModerationKeyboard(review.ID.String())
		card := fmt.Sprintf("📝 Отзыв от <code>%d</code>:\n\n%s", review.UserChatID, review.Text)
		if len(review.PhotoFileIDs) > 0 {
			b.sendPhoto(ctx, chatID, review.PhotoFileIDs[0], card, &keyboard)
			continue
		}
		b.send(ctx, chatID, card, &keyboard)
	}
}

func (b *Bot) showAdminStats(ctx context.Context, chatID int64) {
	var lines []string
	lines = append(lines, "📊 <b>Статистика</b>\n")
	if targets, err := b.svc.Users.BroadcastTargets(ctx); err == nil {
		lines = append(lines, fmt.Sprintf("Пользователей: <b>%d</b>", len(targets)))
	}
	if orders, err := b.svc.Orders.Recent(ctx, 100); err == nil {
		confirmed := 0
		revenue := 0
		for _, order := range orders {
			if order.Status != enums.OrderStatusNew && order.Status != enums.OrderStatusRejected {
				confirmed++
				revenue += order.FinalTotalCents
			}
		}
		lines = append(lines, fmt.Sprintf("Заказов (последние 100): <b>%d</b>", len(orders)))
		lines = append(lines, fmt.Sprintf("Из них подтверждено: <b>%d</b> на <b>%s</b>", confirmed, b.money(revenue)))
	}
	if promos, err := b.svc.Promos.List(ctx); err == nil {
		lines = append(lines, fmt.Sprintf("Промокодов: <b>%d</b>", len(promos)))
	}
	keyboard := backKeyboard("sec:admin")
	b.send(ctx, chatID, strings.Join(lines, "\n"), &keyboard)
}

func orderStatusLabel(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusNew:
		return "🆕 новый"
	case enums.OrderStatusConfirmed:
		return "✅ подтверждён"
	case enums.OrderStatusRejected:
		return "❌ отклонён"
	case enums.OrderStatusProcessing:
		return "⏳ в обработке"
	case enums.OrderStatusShipped:
		return "🚚 отправлен"
	case enums.OrderStatusDelivered:
		return "📬 доставлен"
	case enums.OrderStatusCancelled:
		return "🚫 отменён"
	}
	return string(status)
}
