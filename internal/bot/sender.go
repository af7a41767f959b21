package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
)

// api is the slice of the bot client the transport needs. Declared as an
// interface so tests can run without the network.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

// Sender adapts the bot client to the notification fan-out.
type Sender struct {
	api api
}

// NewSender wraps the bot client.
func NewSender(api api) *Sender {
	return &Sender{api: api}
}

// Send implements notifications.Sender.
func (s *Sender) Send(ctx context.Context, msg notifications.Message) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	if keyboard, ok := inlineKeyboard(msg.Buttons); ok {
		out.ReplyMarkup = keyboard
	}
	_, err := s.api.Send(out)
	return err
}

func inlineKeyboard(rows [][]notifications.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...), true
}
