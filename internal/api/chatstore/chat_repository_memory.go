package chatstore

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

// MemoryRepository keeps chats in process memory; a chat expires ttl after
// its last message.
type MemoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (r *MemoryRepository) Append(_ context.Context, msg types.StoredChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var history []types.StoredChatMessage
	if v, ok := r.cache.Get(msg.ChatID); ok {
		history = v.([]types.StoredChatMessage)
	}
	next := make([]types.StoredChatMessage, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, msg)
	if len(next) > maxStoredMessages {
		next = next[len(next)-maxStoredMessages:]
	}
	r.cache.Set(msg.ChatID, next, r.ttl)
	return nil
}

func (r *MemoryRepository) Recent(_ context.Context, chatID string, limit int) ([]types.StoredChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.cache.Get(chatID)
	if !ok || limit <= 0 {
		return []types.StoredChatMessage{}, nil
	}
	history := v.([]types.StoredChatMessage)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]types.StoredChatMessage, len(history))
	copy(out, history)
	return out, nil
}
