package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var errNoActivities = errors.New("no usable activities in response")

// ActivitySuggester proposes group activities from the profile alone.
type ActivitySuggester struct {
	analyzer TextAnalyzer
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewActivitySuggester(analyzer TextAnalyzer, m *metrics.AppMetrics, logger *slog.Logger) *ActivitySuggester {
	return &ActivitySuggester{
		analyzer: analyzer,
		metrics:  m,
		logger:   logger.With(slog.String("component", "ActivitySuggester")),
	}
}

func (a *ActivitySuggester) Suggest(ctx context.Context, profile types.PreferenceProfile, locationLabel string) []types.ActivitySuggestion {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "SuggestActivities", trace.WithAttributes(
		attribute.String("location.label", locationLabel),
		attribute.StringSlice("profile.interests", profile.Interests),
	))
	defer span.End()

	activities, err := a.suggest(ctx, profile, locationLabel)
	if err != nil {
		a.logger.WarnContext(ctx, "Activity suggestions unavailable, using defaults", slog.Any("error", err))
		a.metrics.RecordFallback(ctx, "activities")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("fallback", true))
		return FallbackActivities()
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	span.SetStatus(codes.Ok, "Activities suggested")
	return activities
}

func (a *ActivitySuggester) suggest(ctx context.Context, profile types.PreferenceProfile, locationLabel string) ([]types.ActivitySuggestion, error) {
	raw, err := a.analyzer.Generate(ctx, getActivityPrompt(profile, locationLabel))
	if err != nil {
		a.metrics.RecordUpstreamError(ctx, "text_analyzer", "activities")
		return nil, unavailable(err)
	}

	var resp struct {
		Activities []types.ActivitySuggestion `json:"activities"`
	}
	if err := generativeAI.ParseJSON(raw, activitiesSchema, &resp); err != nil {
		return nil, unavailable(err)
	}

	out := make([]types.ActivitySuggestion, 0, len(resp.Activities))
	for _, s := range resp.Activities {
		if strings.TrimSpace(s.Activity) == "" {
			continue
		}
		s.Tips = nonNil(s.Tips)
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, unavailable(errNoActivities)
	}
	return out, nil
}

// FallbackActivities is the fixed suggestion list used when the analyzer is
// unavailable. It does not depend on the profile.
func FallbackActivities() []types.ActivitySuggestion {
	return []types.ActivitySuggestion{
		{
			Activity:       "Group Dining Experience",
			Description:    "Share a meal at a local restaurant that everyone can agree on",
			Duration:       "1-2 hours",
			Cost:           "$15-40 per person",
			GroupSize:      "2-10 people",
			WhyRecommended: "Eating together is an easy way to get the whole group in one place",
			Tips:           []string{"Make a reservation for larger groups", "Ask about group menus"},
		},
		{
			Activity:       "Explore Local Attractions",
			Description:    "Visit nearby landmarks, parks or museums together",
			Duration:       "2-4 hours",
			Cost:           "Free to $20 per person",
			GroupSize:      "Any size",
			WhyRecommended: "Works for mixed interests and budgets",
			Tips:           []string{"Check opening hours before you go", "Wear comfortable shoes"},
		},
	}
}
