package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const defaultBusinessStatus = "OPERATIONAL"

var errNoDetails = errors.New("place finder returned no details")

// DetailEnricher fetches extended fields for every gathered place.
type DetailEnricher struct {
	finder  PlaceFinder
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewDetailEnricher(finder PlaceFinder, m *metrics.AppMetrics, logger *slog.Logger) *DetailEnricher {
	return &DetailEnricher{
		finder:  finder,
		metrics: m,
		logger:  logger.With(slog.String("component", "DetailEnricher")),
	}
}

// Enrich looks up every place concurrently and waits for all of them. The
// output has the same length and order as places; a place whose lookup
// fails is returned as its BasicProjection.
func (d *DetailEnricher) Enrich(ctx context.Context, places []types.RawPlace) []types.PlaceCandidate {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "EnrichCandidates", trace.WithAttributes(
		attribute.Int("candidates.count", len(places)),
	))
	defer span.End()

	out := make([]types.PlaceCandidate, len(places))
	var eg errgroup.Group
	for i, place := range places {
		eg.Go(func() error {
			out[i] = d.enrichOne(ctx, place)
			return nil
		})
	}
	_ = eg.Wait()

	span.SetStatus(codes.Ok, "Candidates enriched")
	return out
}

func (d *DetailEnricher) enrichOne(ctx context.Context, place types.RawPlace) types.PlaceCandidate {
	if place.PlaceID == "" {
		return BasicProjection(place)
	}
	detail, err := d.finder.GetDetails(ctx, place.PlaceID)
	if err == nil && detail == nil {
		err = errNoDetails
	}
	if err != nil {
		d.logger.WarnContext(ctx, "Place details unavailable, using basic fields",
			slog.String("place_id", place.PlaceID),
			slog.Any("error", err))
		d.metrics.RecordUpstreamError(ctx, "place_finder", "get_details")
		return BasicProjection(place)
	}
	return MergePlaceDetails(place, *detail)
}

// BasicProjection converts a search result into a candidate with defaults
// for absent fields: rating 0, price_level null, empty types and photos,
// business_status OPERATIONAL.
func BasicProjection(place types.RawPlace) types.PlaceCandidate {
	c := types.PlaceCandidate{
		PlaceID:          place.PlaceID,
		Name:             place.Name,
		Vicinity:         place.Vicinity,
		FormattedAddress: place.FormattedAddress,
		Geometry:         place.Geometry,
		Types:            nonNil(slices.Clone(place.Types)),
		Photos:           nonNil(slices.Clone(place.Photos)),
		BusinessStatus:   place.BusinessStatus,
		OpeningHours:     place.OpeningHours,
	}
	if place.Rating != nil {
		c.Rating = *place.Rating
	}
	if place.UserRatingsTotal != nil {
		c.UserRatingsTotal = *place.UserRatingsTotal
	}
	if place.PriceLevel != nil {
		level := *place.PriceLevel
		c.PriceLevel = &level
	}
	if c.BusinessStatus == "" {
		c.BusinessStatus = defaultBusinessStatus
	}
	return c
}

// MergePlaceDetails overlays detail onto the basic search result.
//
//	place_id                          basic, always
//	original_rating                   basic rating, always
//	original_user_ratings_total       basic count, always
//	every other field                 detail when set, else basic
func MergePlaceDetails(basic types.RawPlace, detail types.RawPlaceDetail) types.PlaceCandidate {
	c := BasicProjection(basic)

	if detail.Name != "" {
		c.Name = detail.Name
	}
	if detail.Vicinity != "" {
		c.Vicinity = detail.Vicinity
	}
	if detail.FormattedAddress != "" {
		c.FormattedAddress = detail.FormattedAddress
	}
	if detail.Geometry.Location != (types.LatLng{}) {
		c.Geometry = detail.Geometry
	}
	if detail.Rating != nil {
		c.Rating = *detail.Rating
	}
	if detail.UserRatingsTotal != nil {
		c.UserRatingsTotal = *detail.UserRatingsTotal
	}
	if detail.PriceLevel != nil {
		level := *detail.PriceLevel
		c.PriceLevel = &level
	}
	if len(detail.Types) > 0 {
		c.Types = slices.Clone(detail.Types)
	}
	if len(detail.Photos) > 0 {
		c.Photos = slices.Clone(detail.Photos)
	}
	if detail.BusinessStatus != "" {
		c.BusinessStatus = detail.BusinessStatus
	}
	if detail.OpeningHours != nil {
		c.OpeningHours = detail.OpeningHours
	}
	c.FormattedPhoneNumber = detail.FormattedPhoneNumber
	c.InternationalPhoneNumber = detail.InternationalPhoneNumber
	c.Website = detail.Website
	c.URL = detail.URL
	c.Reviews = detail.Reviews
	c.EditorialSummary = detail.EditorialSummary

	if basic.Rating != nil {
		r := *basic.Rating
		c.OriginalRating = &r
	}
	if basic.UserRatingsTotal != nil {
		n := *basic.UserRatingsTotal
		c.OriginalUserRatingsTotal = &n
	}
	return c
}
