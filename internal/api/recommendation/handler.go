package recommendation

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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

// Recommend handles POST /recommendations.
func (h *HandlerImpl) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.RecommendationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(&req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Recommend(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Recommendation request abandoned", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Request was cancelled")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// RecommendForChat handles GET /chats/{chatID}/recommendations.
func (h *HandlerImpl) RecommendForChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "RecommendForChat", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chats/{chatID}/recommendations"),
	))
	defer span.End()

	chatID := chi.URLParam(r, "chatID")
	l := h.logger.With(slog.String("handler", "RecommendForChat"), slog.String("chat_id", chatID))
	if chatID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "chat id is required")
		return
	}

	req, err := parseChatRequest(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(&req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.RecommendForChat(ctx, chatID, req)
	if err != nil {
		l.WarnContext(ctx, "Recommendation request abandoned", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Request was cancelled")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func parseChatRequest(r *http.Request) (types.ChatRecommendationRequest, error) {
	q := r.URL.Query()
	var req types.ChatRecommendationRequest

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return req, errors.New("lat query parameter must be a number")
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return req, errors.New("lng query parameter must be a number")
	}
	req.Location = types.LatLng{Lat: lat, Lng: lng}
	req.LocationLabel = q.Get("location")

	if raw := q.Get("radius"); raw != "" {
		if req.Radius, err = strconv.Atoi(raw); err != nil {
			return req, errors.New("radius query parameter must be an integer")
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return req, errors.New("limit query parameter must be an integer")
		}
	}
	return req, nil
}
