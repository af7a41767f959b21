package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the in-process fallback used when redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore wires an in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func key(chatID int64, scope string) string {
	return fmt.Sprintf("%d:%s", chatID, scope)
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, chatID int64, scope, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(chatID, scope)] = memoryEntry{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, chatID int64, scope string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key(chatID, scope)]
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key(chatID, scope))
		return "", false, nil
	}
	return entry.value, true, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context, chatID int64, scopes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, scope := range scopes {
		delete(s.entries, key(chatID, scope))
	}
	return nil
}
