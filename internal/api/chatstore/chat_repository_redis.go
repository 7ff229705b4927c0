package chatstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

// maxStoredMessages bounds every chat list in Redis.
const maxStoredMessages = 500

// RedisRepository keeps each chat as a capped Redis list of JSON messages.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func chatKey(chatID string) string {
	return "chat:" + chatID + ":messages"
}

func (r *RedisRepository) Append(ctx context.Context, msg types.StoredChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	key := chatKey(msg.ChatID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -maxStoredMessages, -1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to append chat message to redis",
			slog.String("chat_id", msg.ChatID),
			slog.Any("error", err))
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (r *RedisRepository) Recent(ctx context.Context, chatID string, limit int) ([]types.StoredChatMessage, error) {
	if limit <= 0 {
		return []types.StoredChatMessage{}, nil
	}
	raw, err := r.client.LRange(ctx, chatKey(chatID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}

	messages := make([]types.StoredChatMessage, 0, len(raw))
	for _, item := range raw {
		var m types.StoredChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			r.logger.WarnContext(ctx, "Skipping unreadable chat message",
				slog.String("chat_id", chatID),
				slog.Any("error", err))
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}
