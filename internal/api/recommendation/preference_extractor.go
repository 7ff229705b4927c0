package recommendation

import (
	"context"
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

const (
	maxProfileKeywords = 5
	maxProfileCuisine  = 3
	maxProfileActivity = 3
)

// keywordCategory is one fixed keyword set scanned by the fallback.
type keywordCategory struct {
	interest  string
	placeType string
	terms     []string
}

var cuisineTerms = []string{
	"italian", "mexican", "chinese", "thai", "indian",
	"japanese", "french", "korean", "greek", "vietnamese",
}

var activityTerms = []string{
	"movie", "cinema", "bowling", "hiking", "park", "museum", "concert",
	"game", "sports", "karaoke", "shopping", "beach", "party", "club", "dance",
}

var fallbackCategories = []keywordCategory{
	{
		interest:  "food",
		placeType: "restaurant",
		terms: append([]string{
			"food", "eat", "restaurant", "dinner", "lunch", "breakfast", "brunch",
			"pizza", "sushi", "burger", "coffee", "cafe", "drinks",
		}, cuisineTerms...),
	},
	{
		interest:  "entertainment",
		placeType: "amusement_park",
		terms:     activityTerms,
	},
	{
		interest:  "sightseeing",
		placeType: "tourist_attraction",
		terms: []string{
			"sightseeing", "tour", "landmark", "gallery", "zoo",
			"aquarium", "monument", "attraction", "historic",
		},
	},
	{
		interest:  "atmosphere",
		placeType: "cafe",
		terms: []string{
			"cheap", "affordable", "expensive", "luxury", "fancy", "casual",
			"formal", "cozy", "romantic", "quiet", "lively",
		},
	},
}

// PreferenceExtractor turns a chat transcript into a PreferenceProfile.
type PreferenceExtractor struct {
	analyzer TextAnalyzer
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

func NewPreferenceExtractor(analyzer TextAnalyzer, m *metrics.AppMetrics, logger *slog.Logger) *PreferenceExtractor {
	return &PreferenceExtractor{
		analyzer: analyzer,
		metrics:  m,
		logger:   logger.With(slog.String("component", "PreferenceExtractor")),
	}
}

// Analyze never fails: when the analyzer is unavailable the keyword fallback
// produces the profile.
func (e *PreferenceExtractor) Analyze(ctx context.Context, messages []types.ChatMessage, locationHint string) types.PreferenceProfile {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "AnalyzePreferences", trace.WithAttributes(
		attribute.Int("messages.count", len(messages)),
	))
	defer span.End()

	profile, err := e.analyze(ctx, messages, locationHint)
	if err != nil {
		e.logger.WarnContext(ctx, "Preference analysis unavailable, using keyword fallback", slog.Any("error", err))
		e.metrics.RecordFallback(ctx, "preferences")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("fallback", true))
		return FallbackProfile(messages)
	}

	span.SetStatus(codes.Ok, "Preferences analyzed")
	return profile
}

func (e *PreferenceExtractor) analyze(ctx context.Context, messages []types.ChatMessage, locationHint string) (types.PreferenceProfile, error) {
	raw, err := e.analyzer.Generate(ctx, getPreferencePrompt(messages, locationHint))
	if err != nil {
		e.metrics.RecordUpstreamError(ctx, "text_analyzer", "preferences")
		return types.PreferenceProfile{}, unavailable(err)
	}

	var profile types.PreferenceProfile
	if err := generativeAI.ParseJSON(raw, profileSchema, &profile); err != nil {
		return types.PreferenceProfile{}, unavailable(err)
	}
	return normalizeProfile(profile, messages), nil
}

// normalizeProfile maps a backend profile onto the same guarantees the
// fallback gives: a known budget and no nil lists.
func normalizeProfile(p types.PreferenceProfile, messages []types.ChatMessage) types.PreferenceProfile {
	p.Interests = nonNil(p.Interests)
	p.PlaceTypes = nonNil(p.PlaceTypes)
	p.Constraints = nonNil(p.Constraints)
	p.Keywords = nonNil(p.Keywords)
	p.Preferences.Budget = types.NormalizeBudget(string(p.Preferences.Budget))
	if strings.TrimSpace(p.Preferences.Atmosphere) == "" {
		p.Preferences.Atmosphere = "casual"
	}
	if len(p.Preferences.Cuisine) == 0 {
		p.Preferences.Cuisine = []string{"any"}
	}
	if len(p.Preferences.Activities) == 0 {
		p.Preferences.Activities = []string{"general"}
	}
	if p.GroupInfo.Size == "" {
		p.GroupInfo.Size = groupSize(messages)
	}
	if p.GroupInfo.Demographics == "" {
		p.GroupInfo.Demographics = "mixed"
	}
	if strings.TrimSpace(p.Summary) == "" {
		p.Summary = profileSummary(p.Interests, p.Preferences.Budget, p.Preferences.Atmosphere)
	}
	return p
}

// FallbackProfile derives a profile from fixed keyword sets. The result
// depends only on the message contents and senders.
func FallbackProfile(messages []types.ChatMessage) types.PreferenceProfile {
	var buf strings.Builder
	for _, m := range messages {
		buf.WriteString(strings.ToLower(m.Content))
		buf.WriteByte(' ')
	}
	text := buf.String()

	interests := []string{}
	placeTypes := []string{}
	keywords := []string{}
	for _, cat := range fallbackCategories {
		matched := matchTerms(text, cat.terms)
		if len(matched) == 0 {
			continue
		}
		interests = append(interests, cat.interest)
		placeTypes = append(placeTypes, cat.placeType)
		keywords = append(keywords, matched...)
	}

	if len(interests) == 0 {
		interests = []string{"food", "entertainment"}
		placeTypes = []string{"restaurant", "tourist_attraction"}
		keywords = []string{"fun", "good food"}
	}

	budget := types.BudgetMedium
	switch {
	case containsAny(text, "cheap", "affordable"):
		budget = types.BudgetLow
	case containsAny(text, "expensive", "luxury", "fancy"):
		budget = types.BudgetHigh
	}

	atmosphere := "casual"
	if containsAny(text, "formal", "fancy") {
		atmosphere = "formal"
	}

	cuisine := capList(matchTerms(text, cuisineTerms), maxProfileCuisine)
	if len(cuisine) == 0 {
		cuisine = []string{"any"}
	}
	activities := capList(matchTerms(text, activityTerms), maxProfileActivity)
	if len(activities) == 0 {
		activities = []string{"general"}
	}

	return types.PreferenceProfile{
		Interests:  interests,
		PlaceTypes: placeTypes,
		Preferences: types.Preferences{
			Budget:     budget,
			Atmosphere: atmosphere,
			Cuisine:    cuisine,
			Activities: activities,
		},
		Constraints: []string{},
		GroupInfo: types.GroupInfo{
			Size:         groupSize(messages),
			Demographics: "mixed",
		},
		Keywords: capList(keywords, maxProfileKeywords),
		Summary:  profileSummary(interests, budget, atmosphere),
	}
}

// matchTerms returns the terms that occur anywhere in text, in the order of
// terms. "museum" matches "museums" and "cheap" matches "cheaper".
func matchTerms(text string, terms []string) []string {
	matched := []string{}
	for _, t := range terms {
		if strings.Contains(text, t) {
			matched = append(matched, t)
		}
	}
	return matched
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func groupSize(messages []types.ChatMessage) string {
	senders := make(map[string]struct{})
	for _, m := range messages {
		name := strings.ToLower(strings.TrimSpace(m.Sender))
		if name != "" {
			senders[name] = struct{}{}
		}
	}
	switch n := len(senders); {
	case n == 0:
		return "unknown"
	case n <= 4:
		return "small"
	case n <= 8:
		return "medium"
	default:
		return "large"
	}
}

func profileSummary(interests []string, budget types.Budget, atmosphere string) string {
	topic := "a fun outing"
	if len(interests) > 0 {
		topic = joinHuman(interests)
	}
	return "The group is looking for " + topic + " with a " + string(budget) +
		" budget in a " + atmosphere + " setting."
}

func joinHuman(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
