package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
)

func backButton(data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", data)
}

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛍 Каталог", "sec:catalog"),
			tgbotapi.NewInlineKeyboardButtonData("🧠 Поиск", "sec:search"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧺 Корзина", "sec:cart"),
			tgbotapi.NewInlineKeyboardButtonData("⭐️ Избранное", "sec:favs"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Профиль", "sec:profile"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Отзывы", "sec:reviews"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏷 Промокод", "sec:promo"),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛠 Админка", "sec:admin"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📦 Заказы", "adm:orders")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏷 Промокоды", "adm:promos")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✉️ Инвайт на отзыв", "adm:review_invite")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 Непринятые отзывы", "adm:reviews_pending")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📣 Рассылка", "adm:broadcast")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", "adm:stats")),
		tgbotapi.NewInlineKeyboardRow(backButton("sec:menu")),
	)
}

func categoriesKeyboard(categories []models.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "cat:"+c.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("sec:menu")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// productKeyboard shows size picks, favorite toggle, and the position cursor
// within the category feed.
func productKeyboard(product *models.Product, categoryID string, idx, total int) tgbotapi.InlineKeyboardMarkup {
	var sizeButtons []tgbotapi.InlineKeyboardButton
	for _, size := range catalog.Sizes {
		sizeButtons = append(sizeButtons, tgbotapi.NewInlineKeyboardButtonData(
			size, fmt.Sprintf("size:%s:%s", product.ID, size),
		))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{sizeButtons}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⭐️ В избранное", "fav:"+product.ID.String()),
	))

	var nav []tgbotapi.InlineKeyboardButton
	if idx > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("pnav:%s:%d", categoryID, idx-1)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", idx+1, total), "noop"))
	if idx < total-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("pnav:%s:%d", categoryID, idx+1)))
	}
	rows = append(rows, nav)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("sec:catalog")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cartKeyboard(items []models.CartItem) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		id := item.ID.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("−", "cqty:"+id+":-1"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d", item.Qty), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("+", "cqty:"+id+":1"),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "cdel:"+id),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Оформить заказ", "cart:checkout")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🧹 Очистить", "cart:clear")),
		tgbotapi.NewInlineKeyboardRow(backButton("sec:menu")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func subscribeKeyboard(channel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("✅ Подписаться", "https://t.me/"+strings.TrimPrefix(channel, "@")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Проверить подписку", "sub:check"),
		),
	)
}

func deliveryStatusKeyboard(orderNumber int64) tgbotapi.InlineKeyboardMarkup {
	statuses := []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}
	labels := map[enums.OrderStatus]string{
		enums.OrderStatusProcessing: "🔧 В работе",
		enums.OrderStatusShipped:    "🚚 Отправлен",
		enums.OrderStatusDelivered:  "📬 Доставлен",
		enums.OrderStatusCancelled:  "🚫 Отменён",
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, status := range statuses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labels[status], fmt.Sprintf("ost:%d:%s", orderNumber, status)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backButton("adm:orders")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reviewModerationKeyboard(reviewID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Принять", "revapp:"+reviewID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "revrej:"+reviewID),
		),
	)
}

func backKeyboard(data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(backButton(data)))
}
