package recommendation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const (
	maxPersonalized    = 5
	defaultMatchScore  = 0.5
	defaultGroupAppeal = "Good option for groups"
)

type placeAnnotation struct {
	PlaceID                 string   `json:"place_id"`
	PersonalizedDescription string   `json:"personalizedDescription"`
	MatchScore              *float64 `json:"matchScore"`
	Highlights              []string `json:"highlights"`
	GroupAppeal             string   `json:"groupAppeal"`
}

// Personalizer scores and annotates enriched candidates for the group.
type Personalizer struct {
	analyzer TextAnalyzer
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewPersonalizer(analyzer TextAnalyzer, m *metrics.AppMetrics, logger *slog.Logger) *Personalizer {
	return &Personalizer{
		analyzer: analyzer,
		metrics:  m,
		logger:   logger.With(slog.String("component", "Personalizer")),
	}
}

// Personalize returns one PersonalizedPlace per candidate, in input order.
// Only the first five candidates are sent to the analyzer; the rest, and
// every candidate when the analyzer is unavailable, get default annotations.
func (p *Personalizer) Personalize(ctx context.Context, candidates []types.PlaceCandidate, profile types.PreferenceProfile) []types.PersonalizedPlace {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "PersonalizePlaces", trace.WithAttributes(
		attribute.Int("candidates.count", len(candidates)),
	))
	defer span.End()

	if len(candidates) == 0 {
		return []types.PersonalizedPlace{}
	}

	subset := candidates[:min(len(candidates), maxPersonalized)]
	annotations, err := p.annotate(ctx, subset, profile)
	if err != nil {
		p.logger.WarnContext(ctx, "Personalization unavailable, using default annotations", slog.Any("error", err))
		p.metrics.RecordFallback(ctx, "personalization")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("fallback", true))
	}

	out := make([]types.PersonalizedPlace, len(candidates))
	for i, c := range candidates {
		var ann *placeAnnotation
		if i < len(subset) && c.PlaceID != "" {
			if a, ok := annotations[c.PlaceID]; ok {
				ann = &a
			}
		}
		out[i] = personalizedPlace(c, ann)
	}

	span.SetStatus(codes.Ok, "Places personalized")
	return out
}

func (p *Personalizer) annotate(ctx context.Context, subset []types.PlaceCandidate, profile types.PreferenceProfile) (map[string]placeAnnotation, error) {
	raw, err := p.analyzer.Generate(ctx, getPersonalizationPrompt(subset, profile))
	if err != nil {
		p.metrics.RecordUpstreamError(ctx, "text_analyzer", "personalization")
		return nil, unavailable(err)
	}

	var resp struct {
		Places []placeAnnotation `json:"places"`
	}
	if err := generativeAI.ParseJSON(raw, personalizationSchema, &resp); err != nil {
		return nil, unavailable(err)
	}

	byID := make(map[string]placeAnnotation, len(resp.Places))
	for _, a := range resp.Places {
		if _, seen := byID[a.PlaceID]; !seen && a.PlaceID != "" {
			byID[a.PlaceID] = a
		}
	}
	return byID, nil
}

func personalizedPlace(c types.PlaceCandidate, ann *placeAnnotation) types.PersonalizedPlace {
	out := types.PersonalizedPlace{
		PlaceCandidate:          c,
		PersonalizedDescription: c.Name,
		MatchScore:              defaultMatchScore,
		Highlights:              []string{},
		GroupAppeal:             defaultGroupAppeal,
	}
	if ann == nil {
		return out
	}
	if ann.PersonalizedDescription != "" {
		out.PersonalizedDescription = ann.PersonalizedDescription
	}
	if ann.MatchScore != nil {
		out.MatchScore = clampScore(*ann.MatchScore)
	}
	if ann.Highlights != nil {
		out.Highlights = ann.Highlights
	}
	if ann.GroupAppeal != "" {
		out.GroupAppeal = ann.GroupAppeal
	}
	return out
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
