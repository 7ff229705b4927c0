package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const (
	defaultPlaceType = "restaurant"
	defaultRating    = "3.5+"
)

var priceLevelPattern = regexp.MustCompile(`^[0-5](-[0-5])?$`)

// StrategyPlanner turns a profile into an ordered SearchPlan.
type StrategyPlanner struct {
	analyzer TextAnalyzer
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewStrategyPlanner(analyzer TextAnalyzer, m *metrics.AppMetrics, logger *slog.Logger) *StrategyPlanner {
	return &StrategyPlanner{
		analyzer: analyzer,
		metrics:  m,
		logger:   logger.With(slog.String("component", "StrategyPlanner")),
	}
}

// Plan always returns at least one search strategy.
func (p *StrategyPlanner) Plan(ctx context.Context, profile types.PreferenceProfile, location types.LatLng, radiusMeters int) types.SearchPlan {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "PlanSearch", trace.WithAttributes(
		attribute.Int("radius", radiusMeters),
	))
	defer span.End()

	plan, err := p.plan(ctx, profile, location, radiusMeters)
	if err != nil {
		p.logger.WarnContext(ctx, "Search planning unavailable, using profile fallback", slog.Any("error", err))
		p.metrics.RecordFallback(ctx, "strategy")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("fallback", true))
		return FallbackPlan(profile)
	}

	span.SetAttributes(attribute.Int("strategies.count", len(plan.SearchStrategies)))
	span.SetStatus(codes.Ok, "Search planned")
	return plan
}

func (p *StrategyPlanner) plan(ctx context.Context, profile types.PreferenceProfile, location types.LatLng, radius int) (types.SearchPlan, error) {
	raw, err := p.analyzer.Generate(ctx, getStrategyPrompt(profile, location, radius))
	if err != nil {
		p.metrics.RecordUpstreamError(ctx, "text_analyzer", "strategy")
		return types.SearchPlan{}, unavailable(err)
	}

	var plan types.SearchPlan
	if err := generativeAI.ParseJSON(raw, planSchema, &plan); err != nil {
		return types.SearchPlan{}, unavailable(err)
	}
	return normalizePlan(plan, profile), nil
}

func normalizePlan(plan types.SearchPlan, profile types.PreferenceProfile) types.SearchPlan {
	strategies := make([]types.SearchStrategy, 0, len(plan.SearchStrategies))
	for _, s := range plan.SearchStrategies {
		s.Value = strings.TrimSpace(s.Value)
		if s.Value != "" {
			strategies = append(strategies, s)
		}
	}
	slices.SortStableFunc(strategies, func(a, b types.SearchStrategy) int {
		return a.Priority - b.Priority
	})
	if len(strategies) == 0 {
		strategies = []types.SearchStrategy{defaultStrategy()}
	}
	plan.SearchStrategies = strategies

	if len(plan.Keywords) == 0 {
		plan.Keywords = slices.Clone(nonNil(profile.Keywords))
	}
	if !priceLevelPattern.MatchString(plan.Filters.PriceLevel) {
		plan.Filters.PriceLevel = priceLevelFor(profile.Preferences.Budget)
	}
	if plan.Filters.Rating == "" {
		plan.Filters.Rating = defaultRating
	}
	plan.AlternativeOptions = nonNil(plan.AlternativeOptions)
	plan.Tips = nonNil(plan.Tips)
	if plan.RecommendationReason == "" {
		plan.RecommendationReason = recommendationReason(profile)
	}
	return plan
}

// FallbackPlan builds a SearchPlan from the profile alone.
func FallbackPlan(profile types.PreferenceProfile) types.SearchPlan {
	strategies := make([]types.SearchStrategy, 0, len(profile.PlaceTypes)+1)
	for i, pt := range profile.PlaceTypes {
		strategies = append(strategies, types.SearchStrategy{
			Type:     types.StrategyPlaceType,
			Value:    pt,
			Priority: i + 1,
			Reason:   fmt.Sprintf("Places of type %s fit the group's interests", pt),
		})
	}
	if len(profile.Keywords) > 0 {
		strategies = append(strategies, types.SearchStrategy{
			Type:     types.StrategyKeyword,
			Value:    profile.Keywords[0],
			Priority: len(profile.PlaceTypes) + 1,
			Reason:   fmt.Sprintf("The group mentioned %q", profile.Keywords[0]),
		})
	}
	if len(strategies) == 0 {
		strategies = append(strategies, defaultStrategy())
	}

	return types.SearchPlan{
		SearchStrategies: strategies,
		Keywords:         slices.Clone(nonNil(profile.Keywords)),
		Filters: types.SearchFilters{
			PriceLevel: priceLevelFor(profile.Preferences.Budget),
			Rating:     defaultRating,
			OpenNow:    true,
		},
		RecommendationReason: recommendationReason(profile),
		AlternativeOptions:   alternativeOptions(profile),
		Tips:                 profileTips(profile),
	}
}

func defaultStrategy() types.SearchStrategy {
	return types.SearchStrategy{
		Type:     types.StrategyPlaceType,
		Value:    defaultPlaceType,
		Priority: 1,
		Reason:   "Restaurants suit most groups",
	}
}

func priceLevelFor(budget types.Budget) string {
	switch budget {
	case types.BudgetLow:
		return "1-2"
	case types.BudgetHigh:
		return "4-5"
	default:
		return "1-3"
	}
}

func recommendationReason(profile types.PreferenceProfile) string {
	if len(profile.Interests) == 0 {
		return "Based on the group's conversation."
	}
	return fmt.Sprintf("Based on the group's interest in %s.", joinHuman(profile.Interests))
}

func alternativeOptions(profile types.PreferenceProfile) []string {
	out := []string{}
	for _, a := range profile.Preferences.Activities {
		if a != "" && a != "general" {
			out = append(out, a)
		}
	}
	return out
}

func profileTips(profile types.PreferenceProfile) []string {
	tips := []string{}
	switch profile.Preferences.Budget {
	case types.BudgetLow:
		tips = append(tips, "Look for lunch specials and happy hours to keep costs down")
	case types.BudgetHigh:
		tips = append(tips, "Book ahead, popular upscale places fill up quickly")
	default:
		tips = append(tips, "Check recent reviews before heading out")
	}
	if profile.Preferences.Atmosphere == "formal" {
		tips = append(tips, "Check the dress code before you go")
	}
	for _, c := range profile.Constraints {
		if c != "" {
			tips = append(tips, "Keep in mind: "+c)
		}
	}
	return tips
}
