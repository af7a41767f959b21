package sessions

import (
	"context"
	"time"
)

// DefaultTTL bounds how long a browsing cursor survives without activity.
const DefaultTTL = 24 * time.Hour

// Store keeps small per-chat conversation state: the current catalog position,
// the pending admin prompt, the search query being typed. Values are plain
// strings keyed by chat id and scope.
type Store interface {
	Set(ctx context.Context, chatID int64, scope, value string) error
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, chatID int64, scope string) (string, bool, error)
	Clear(ctx context.Context, chatID int64, scopes ...string) error
}
