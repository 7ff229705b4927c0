package chatstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var ErrInvalidChatID = errors.New("chat id is required")

// Service reads and writes chat transcripts.
type Service interface {
	// GetMessages never fails: missing or unreadable history resolves to
	// PlaceholderTranscript.
	GetMessages(ctx context.Context, chatID string, limit int) []types.ChatMessage
	AppendMessage(ctx context.Context, chatID string, req types.AppendMessageRequest) (*types.StoredChatMessage, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	repo         Repository
	defaultLimit int
	now          func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, defaultLimit int, logger *slog.Logger) *ServiceImpl {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &ServiceImpl{
		logger:       logger,
		repo:         repo,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

func (s *ServiceImpl) GetMessages(ctx context.Context, chatID string, limit int) []types.ChatMessage {
	ctx, span := otel.Tracer("ChatStoreService").Start(ctx, "GetMessages", trace.WithAttributes(
		attribute.String("chat.id", chatID),
		attribute.Int("limit", limit),
	))
	defer span.End()

	l := s.logger.With(slog.String("chat_id", chatID))
	if limit <= 0 {
		limit = s.defaultLimit
	}

	stored, err := s.repo.Recent(ctx, chatID, limit)
	if err != nil {
		l.WarnContext(ctx, "Chat history unavailable, using placeholder transcript", slog.Any("error", err))
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("placeholder", true))
		return PlaceholderTranscript(s.now())
	}
	if len(stored) == 0 {
		l.InfoContext(ctx, "No chat history found, using placeholder transcript")
		span.SetAttributes(attribute.Bool("placeholder", true))
		return PlaceholderTranscript(s.now())
	}

	messages := make([]types.ChatMessage, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, m.ToChatMessage())
	}
	span.SetAttributes(attribute.Int("messages.count", len(messages)))
	span.SetStatus(codes.Ok, "Messages loaded")
	return messages
}

func (s *ServiceImpl) AppendMessage(ctx context.Context, chatID string, req types.AppendMessageRequest) (*types.StoredChatMessage, error) {
	ctx, span := otel.Tracer("ChatStoreService").Start(ctx, "AppendMessage", trace.WithAttributes(
		attribute.String("chat.id", chatID),
	))
	defer span.End()

	if strings.TrimSpace(chatID) == "" {
		span.RecordError(ErrInvalidChatID)
		span.SetStatus(codes.Error, "Missing chat id")
		return nil, ErrInvalidChatID
	}

	msg := types.StoredChatMessage{
		ID:        uuid.New(),
		ChatID:    chatID,
		Sender:    strings.TrimSpace(req.Sender),
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Append failed")
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	span.SetStatus(codes.Ok, "Message stored")
	return &msg, nil
}

// PlaceholderTranscript is the sample group chat used when a chat has no
// readable history.
func PlaceholderTranscript(now time.Time) []types.ChatMessage {
	lines := []struct {
		sender  string
		content string
	}{
		{"Alex", "Hey everyone, what should we do this weekend?"},
		{"Sam", "I'm craving some good Italian food, maybe pizza?"},
		{"Jordan", "Sounds great, but let's keep it affordable"},
		{"Taylor", "After dinner we could go bowling or catch a movie"},
		{"Sam", "Somewhere casual with a nice vibe would be perfect"},
	}
	out := make([]types.ChatMessage, len(lines))
	for i, line := range lines {
		ts := now.Add(-time.Duration(len(lines)-i) * time.Minute).UTC()
		out[i] = types.ChatMessage{Sender: line.sender, Content: line.content, Timestamp: &ts}
	}
	return out
}
