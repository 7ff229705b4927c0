package places

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/internal/api"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

// TextSearcher is the part of the Places client the search endpoint needs.
type TextSearcher interface {
	SearchByText(ctx context.Context, query string, location *types.LatLng) ([]types.RawPlace, error)
}

var _ TextSearcher = (*Client)(nil)

type HandlerImpl struct {
	searcher TextSearcher
	logger   *slog.Logger
}

func NewHandlerImpl(searcher TextSearcher, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		searcher: searcher,
		logger:   logger,
	}
}

type searchResult struct {
	Success bool             `json:"success"`
	Query   string           `json:"query"`
	Results []types.RawPlace `json:"results"`
}

// SearchPlaces handles GET /places/search?query=&lat=&lng=.
func (h *HandlerImpl) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	query := r.URL.Query().Get("query")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "query parameter is required")
		return
	}

	location, err := parseOptionalLocation(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if err != nil {
		l.WarnContext(ctx, "Invalid location parameters", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.searcher.SearchByText(ctx, query, location)
	if err != nil {
		l.ErrorContext(ctx, "Place search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Place search is unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, searchResult{
		Success: true,
		Query:   query,
		Results: results,
	})
}

func parseOptionalLocation(latRaw, lngRaw string) (*types.LatLng, error) {
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, errors.New("lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("lat must be a number between -90 and 90")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, errors.New("lng must be a number between -180 and 180")
	}
	return &types.LatLng{Lat: lat, Lng: lng}, nil
}
