package chatstore

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/internal/api"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// AppendMessage handles POST /chats/{chatID}/messages.
func (h *HandlerImpl) AppendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatStoreHandler").Start(r.Context(), "AppendMessage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chats/{chatID}/messages"),
	))
	defer span.End()

	chatID := chi.URLParam(r, "chatID")
	l := h.logger.With(slog.String("handler", "AppendMessage"), slog.String("chat_id", chatID))

	var req types.AppendMessageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(&req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.AppendMessage(ctx, chatID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidChatID) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to store chat message", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to store chat message")
		return
	}

	l.DebugContext(ctx, "Chat message stored", slog.String("message_id", msg.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, msg)
}
