package movies

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const (
	maxGenres   = 4
	maxKeywords = 5
	defaultMood = "easygoing"
)

type genreTerms struct {
	genre string
	terms []string
}

// genreKeywords is scanned in order; the first genres matched come first.
var genreKeywords = []genreTerms{
	{"action", []string{"action", "explosions", "fight", "fights", "superhero", "superheroes", "marvel"}},
	{"comedy", []string{"comedy", "comedies", "funny", "laugh", "hilarious", "romcom"}},
	{"drama", []string{"drama", "dramas", "dramatic"}},
	{"horror", []string{"horror", "scary", "creepy", "spooky", "slasher"}},
	{"romance", []string{"romance", "romantic", "romcom"}},
	{"sci-fi", []string{"scifi", "sci", "space", "alien", "aliens", "robots", "futuristic"}},
	{"thriller", []string{"thriller", "thrillers", "suspense", "mystery", "twist"}},
	{"animation", []string{"animated", "animation", "cartoon", "cartoons", "pixar", "anime"}},
	{"documentary", []string{"documentary", "documentaries"}},
	{"fantasy", []string{"fantasy", "magic", "dragons", "wizard", "wizards"}},
}

var moodTerms = []struct {
	mood  string
	terms []string
}{
	{"intense", []string{"intense", "scary", "thrilling", "edge", "adrenaline"}},
	{"emotional", []string{"emotional", "cry", "touching", "sad", "moving"}},
	{"lighthearted", []string{"funny", "light", "fun", "chill", "relaxing", "laugh"}},
}

var fallbackGenres = []string{"comedy", "drama"}

// TextAnalyzer produces a JSON document for a prompt.
type TextAnalyzer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service reads a group's movie taste out of a chat transcript.
type Service interface {
	Analyze(ctx context.Context, messages []types.ChatMessage) types.MovieProfile
}

type ServiceImpl struct {
	logger   *slog.Logger
	analyzer TextAnalyzer
	metrics  *metrics.AppMetrics
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(analyzer TextAnalyzer, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger.With(slog.String("component", "MovieTasteExtractor")),
		analyzer: analyzer,
		metrics:  m,
	}
}

// Analyze never fails and always returns at least one genre.
func (s *ServiceImpl) Analyze(ctx context.Context, messages []types.ChatMessage) types.MovieProfile {
	ctx, span := otel.Tracer("MovieService").Start(ctx, "AnalyzeMovieTaste", trace.WithAttributes(
		attribute.Int("messages.count", len(messages)),
	))
	defer span.End()

	profile, err := s.analyze(ctx, messages)
	if err != nil {
		s.logger.WarnContext(ctx, "Movie taste analysis unavailable, using keyword fallback", slog.Any("error", err))
		s.metrics.RecordFallback(ctx, "movies")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("fallback", true))
		return FallbackProfile(messages)
	}

	span.SetAttributes(attribute.StringSlice("genres", profile.Genres))
	span.SetStatus(codes.Ok, "Movie taste analyzed")
	return profile
}

func (s *ServiceImpl) analyze(ctx context.Context, messages []types.ChatMessage) (types.MovieProfile, error) {
	raw, err := s.analyzer.Generate(ctx, getMoviePrompt(messages))
	if err != nil {
		s.metrics.RecordUpstreamError(ctx, "text_analyzer", "movies")
		return types.MovieProfile{}, fmt.Errorf("failed to generate movie profile: %w", err)
	}

	var profile types.MovieProfile
	if err := generativeAI.ParseJSON(raw, movieProfileSchema, &profile); err != nil {
		return types.MovieProfile{}, err
	}
	return normalizeProfile(profile, messages), nil
}

func normalizeProfile(p types.MovieProfile, messages []types.ChatMessage) types.MovieProfile {
	genres := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		genres = FallbackProfile(messages).Genres
	}
	p.Genres = capList(genres, maxGenres)

	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	p.Keywords = capList(p.Keywords, maxKeywords)
	if strings.TrimSpace(p.Mood) == "" {
		p.Mood = defaultMood
	}
	if strings.TrimSpace(p.Summary) == "" {
		p.Summary = movieSummary(p.Genres, p.Mood)
	}
	return p
}

// FallbackProfile scans the transcript for genre and mood words.
func FallbackProfile(messages []types.ChatMessage) types.MovieProfile {
	tokens := map[string]bool{}
	for _, m := range messages {
		for _, f := range strings.FieldsFunc(strings.ToLower(m.Content), func(r rune) bool { return !unicode.IsLetter(r) }) {
			tokens[f] = true
		}
	}

	genres := []string{}
	keywords := []string{}
	seen := map[string]bool{}
	for _, g := range genreKeywords {
		var hit bool
		for _, t := range g.terms {
			if !tokens[t] {
				continue
			}
			hit = true
			if !seen[t] {
				seen[t] = true
				keywords = append(keywords, t)
			}
		}
		if hit {
			genres = append(genres, g.genre)
		}
	}
	if len(genres) == 0 {
		genres = append(genres, fallbackGenres...)
	}

	mood := defaultMood
	for _, m := range moodTerms {
		if matchesAny(tokens, m.terms) {
			mood = m.mood
			break
		}
	}

	genres = capList(genres, maxGenres)
	return types.MovieProfile{
		Genres:   genres,
		Mood:     mood,
		Keywords: capList(keywords, maxKeywords),
		Summary:  movieSummary(genres, mood),
	}
}

func matchesAny(tokens map[string]bool, terms []string) bool {
	for _, t := range terms {
		if tokens[t] {
			return true
		}
	}
	return false
}

func movieSummary(genres []string, mood string) string {
	var topic string
	switch len(genres) {
	case 0:
		topic = "a good movie"
	case 1:
		topic = genres[0]
	default:
		topic = strings.Join(genres[:len(genres)-1], ", ") + " and " + genres[len(genres)-1]
	}
	return fmt.Sprintf("The group is in the mood for %s, something %s.", topic, mood)
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
