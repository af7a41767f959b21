package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/redis"
)

// RedisStore keeps conversation state in redis so cursors survive restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wires a redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, chatID int64, scope, value string) error {
	return s.client.Set(ctx, s.client.SessionKey(chatID, scope), value, s.ttl)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, chatID int64, scope string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.client.SessionKey(chatID, scope))
	if err != nil {
		if redis.IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, chatID int64, scopes ...string) error {
	keys := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		keys = append(keys, s.client.SessionKey(chatID, scope))
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...)
}
