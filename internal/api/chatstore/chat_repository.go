package chatstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var ErrUnknownBackend = errors.New("unknown chat store backend")

// Repository persists chat transcripts.
type Repository interface {
	// Append stores one message at the end of the chat.
	Append(ctx context.Context, msg types.StoredChatMessage) error
	// Recent returns up to limit of the newest messages, oldest first.
	Recent(ctx context.Context, chatID string, limit int) ([]types.StoredChatMessage, error)
}

// DB is the subset of *pgxpool.Pool the Postgres repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) Append(ctx context.Context, msg types.StoredChatMessage) error {
	ctx, span := otel.Tracer("ChatRepository").Start(ctx, "Append", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("chat.id", msg.ChatID),
	))
	defer span.End()

	query := `
		INSERT INTO chat_messages (id, chat_id, sender, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	tag, err := r.pgpool.Exec(ctx, query, msg.ID, msg.ChatID, msg.Sender, msg.Content, msg.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert chat message",
			slog.String("chat_id", msg.ChatID),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	if tag.RowsAffected() != 1 {
		err := fmt.Errorf("expected 1 row inserted, got %d", tag.RowsAffected())
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unexpected rows affected")
		return err
	}

	span.SetStatus(codes.Ok, "Message inserted")
	return nil
}

func (r *PostgresRepository) Recent(ctx context.Context, chatID string, limit int) ([]types.StoredChatMessage, error) {
	ctx, span := otel.Tracer("ChatRepository").Start(ctx, "Recent", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("chat.id", chatID),
		attribute.Int("limit", limit),
	))
	defer span.End()

	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM (
			SELECT id, chat_id, sender, content, created_at
			FROM chat_messages
			WHERE chat_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	rows, err := r.pgpool.Query(ctx, query, chatID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]types.StoredChatMessage, 0, limit)
	for rows.Next() {
		var m types.StoredChatMessage
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	span.SetAttributes(attribute.Int("messages.count", len(messages)))
	span.SetStatus(codes.Ok, "Messages fetched")
	return messages, nil
}
