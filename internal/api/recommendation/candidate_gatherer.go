package recommendation

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

// maxGatheredPlaces is split evenly across the strategies of a plan.
const maxGatheredPlaces = 20

// CandidateGatherer runs every strategy of a plan against the place finder.
type CandidateGatherer struct {
	finder  PlaceFinder
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewCandidateGatherer(finder PlaceFinder, m *metrics.AppMetrics, logger *slog.Logger) *CandidateGatherer {
	return &CandidateGatherer{
		finder:  finder,
		metrics: m,
		logger:  logger.With(slog.String("component", "CandidateGatherer")),
	}
}

// Gather concatenates the results of all strategies in priority order.
// A failing strategy contributes nothing and never aborts the others.
// Places found by more than one strategy appear once per strategy.
func (g *CandidateGatherer) Gather(ctx context.Context, plan types.SearchPlan, location types.LatLng, radius int) []types.RawPlace {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "GatherCandidates", trace.WithAttributes(
		attribute.Int("strategies.count", len(plan.SearchStrategies)),
	))
	defer span.End()

	strategies := slices.Clone(plan.SearchStrategies)
	slices.SortStableFunc(strategies, func(a, b types.SearchStrategy) int {
		return a.Priority - b.Priority
	})
	if len(strategies) == 0 {
		return []types.RawPlace{}
	}

	perStrategy := max(maxGatheredPlaces/len(strategies), 1)
	results := make([][]types.RawPlace, len(strategies))

	var eg errgroup.Group
	for i, strategy := range strategies {
		eg.Go(func() error {
			params := searchParams(strategy, plan, location, radius, perStrategy)
			places, err := g.finder.SearchNearby(ctx, params)
			if err != nil {
				g.logger.WarnContext(ctx, "Search strategy failed, skipping",
					slog.String("type", string(strategy.Type)),
					slog.String("value", strategy.Value),
					slog.Any("error", err))
				g.metrics.RecordUpstreamError(ctx, "place_finder", "search_nearby")
				return nil
			}
			if len(places) > perStrategy {
				places = places[:perStrategy]
			}
			results[i] = places
			return nil
		})
	}
	_ = eg.Wait()

	candidates := []types.RawPlace{}
	for _, r := range results {
		candidates = append(candidates, r...)
	}

	span.SetAttributes(attribute.Int("candidates.count", len(candidates)))
	span.SetStatus(codes.Ok, "Candidates gathered")
	return candidates
}

func searchParams(s types.SearchStrategy, plan types.SearchPlan, location types.LatLng, radius, limit int) types.NearbySearchParams {
	keywords := plan.Keywords
	params := types.NearbySearchParams{
		Location:   location,
		Radius:     radius,
		MaxResults: limit,
		OpenNow:    plan.Filters.OpenNow,
	}
	switch s.Type {
	case types.StrategyKeyword:
		terms := []string{s.Value}
		for _, k := range keywords {
			if k != s.Value {
				terms = append(terms, k)
			}
		}
		params.Keyword = strings.Join(terms, " ")
	default:
		params.Type = s.Value
		params.Keyword = strings.Join(keywords, " ")
	}
	return params
}
