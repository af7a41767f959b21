package notifications

import "context"

// Button is one inline keyboard button. Data buttons trigger a callback, URL
// buttons open a link.
type Button struct {
	Label string
	Data  string
	URL   string
}

// Message is a transport-agnostic outbound chat message. Buttons are laid out
// row by row.
type Message struct {
	ChatID  int64
	Text    string
	Buttons [][]Button
}

// Sender delivers one message to the chat transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
