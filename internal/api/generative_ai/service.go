package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.5
	defaultTimeout     = 30 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("gemini api key is not set")
	ErrEmptyResponse = errors.New("empty response from model")
)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// AIClient sends single-turn prompts to Gemini and returns the raw text.
// Calls go through a circuit breaker so a failing backend is skipped quickly
// and the caller's fallback takes over.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker[string]
	logger      *slog.Logger
}

func NewAIClient(ctx context.Context, cfg Config, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	if cfg.APIKey == "" {
		span.RecordError(ErrMissingAPIKey)
		span.SetStatus(codes.Error, "API key not set")
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return &AIClient{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		breaker:     newBreaker("gemini", logger),
		logger:      logger,
	}, nil
}

func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}

// Generate asks the model for a JSON document answering prompt.
func (ai *AIClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	text, err := ai.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, ai.timeout)
		defer cancel()

		config := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](ai.temperature),
			ResponseMIMEType: "application/json",
		}
		result, err := ai.client.Models.GenerateContent(callCtx, ai.model, genai.Text(prompt), config)
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		txt := result.Text()
		if txt == "" {
			return "", ErrEmptyResponse
		}
		return txt, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", err
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return text, nil
}
