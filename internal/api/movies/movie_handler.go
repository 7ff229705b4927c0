package movies

import (
	"log/slog"
	"net/http"

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

type preferencesResult struct {
	Success bool               `json:"success"`
	Profile types.MovieProfile `json:"profile"`
}

// AnalyzePreferences handles POST /movies/preferences.
func (h *HandlerImpl) AnalyzePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "AnalyzePreferences", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/movies/preferences"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AnalyzePreferences"))

	var req types.MoviePreferencesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(&req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile := h.service.Analyze(ctx, req.Messages)
	l.DebugContext(ctx, "Movie taste analyzed", slog.Any("genres", profile.Genres))
	api.WriteJSONResponse(w, r, http.StatusOK, preferencesResult{Success: true, Profile: profile})
}
