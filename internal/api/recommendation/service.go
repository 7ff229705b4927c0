package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const DefaultRadius = 1500

// Service runs the chat-to-recommendation pipeline.
type Service interface {
	// Recommend analyzes the given messages. The response is always
	// complete; the only error is a context that was already done.
	Recommend(ctx context.Context, req types.RecommendationRequest) (*types.RecommendationResponse, error)
	// RecommendForChat loads the transcript from the chat store first.
	RecommendForChat(ctx context.Context, chatID string, req types.ChatRecommendationRequest) (*types.RecommendationResponse, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	extractor    *PreferenceExtractor
	planner      *StrategyPlanner
	gatherer     *CandidateGatherer
	enricher     *DetailEnricher
	personalizer *Personalizer
	activities   *ActivitySuggester
	chats        ChatStore
	picker       MessagePicker
	metrics      *metrics.AppMetrics
	now          func() time.Time
	newID        func() string
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(
	analyzer TextAnalyzer,
	finder PlaceFinder,
	chats ChatStore,
	picker MessagePicker,
	m *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		extractor:    NewPreferenceExtractor(analyzer, m, logger),
		planner:      NewStrategyPlanner(analyzer, m, logger),
		gatherer:     NewCandidateGatherer(finder, m, logger),
		enricher:     NewDetailEnricher(finder, m, logger),
		personalizer: NewPersonalizer(analyzer, m, logger),
		activities:   NewActivitySuggester(analyzer, m, logger),
		chats:        chats,
		picker:       picker,
		metrics:      m,
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
}

func (s *ServiceImpl) Recommend(ctx context.Context, req types.RecommendationRequest) (*types.RecommendationResponse, error) {
	return s.run(ctx, "messages", req.Messages, req.Location, req.LocationLabel, req.Radius)
}

func (s *ServiceImpl) RecommendForChat(ctx context.Context, chatID string, req types.ChatRecommendationRequest) (*types.RecommendationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := s.chats.GetMessages(ctx, chatID, req.Limit)
	return s.run(ctx, "chat", messages, req.Location, req.LocationLabel, req.Radius)
}

func (s *ServiceImpl) run(ctx context.Context, source string, messages []types.ChatMessage, location types.LatLng, label string, radius int) (*types.RecommendationResponse, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.String("source", source),
		attribute.Int("messages.count", len(messages)),
		attribute.Float64("location.lat", location.Lat),
		attribute.Float64("location.lng", location.Lng),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request cancelled")
		return nil, fmt.Errorf("recommendation request cancelled: %w", err)
	}

	start := s.now()
	requestID := s.newID()
	l := s.logger.With(slog.String("request_id", requestID))
	if radius <= 0 {
		radius = DefaultRadius
	}

	profile := s.extractor.Analyze(ctx, messages, locationHint(location, label))
	plan := s.planner.Plan(ctx, profile, location, radius)

	var (
		places     []types.PersonalizedPlace
		activities []types.ActivitySuggestion
		eg         errgroup.Group
	)
	eg.Go(func() error {
		activities = s.activities.Suggest(ctx, profile, label)
		return nil
	})
	eg.Go(func() error {
		raw := s.gatherer.Gather(ctx, plan, location, radius)
		enriched := s.enricher.Enrich(ctx, raw)
		places = s.personalizer.Personalize(ctx, enriched, profile)
		return nil
	})
	_ = eg.Wait()

	places = nonNil(places)
	activities = nonNil(activities)

	resp := &types.RecommendationResponse{
		Success:         true,
		Message:         s.picker.Pick(responseMessages),
		Analysis:        profile,
		Recommendations: plan,
		Places:          places,
		Activities:      activities,
		Metadata: types.RecommendationMetadata{
			RequestID:     requestID,
			TotalPlaces:   len(places),
			SearchRadius:  radius,
			Location:      location,
			LocationLabel: label,
			Timestamp:     start.UTC(),
		},
	}

	elapsed := s.now().Sub(start)
	s.metrics.RecordPipeline(ctx, source, elapsed, len(places))
	l.InfoContext(ctx, "Recommendations ready",
		slog.String("source", source),
		slog.Int("places", len(places)),
		slog.Int("activities", len(activities)),
		slog.Duration("elapsed", elapsed))
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "Recommendations ready")
	return resp, nil
}

func locationHint(location types.LatLng, label string) string {
	if label != "" {
		return label
	}
	return strconv.FormatFloat(location.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(location.Lng, 'f', 4, 64)
}
