package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	detailFields = "place_id,name,vicinity,formatted_address,geometry,rating,user_ratings_total," +
		"price_level,types,photos,business_status,opening_hours,formatted_phone_number," +
		"international_phone_number,website,url,reviews,editorial_summary"
)

var (
	ErrStatus     = errors.New("places: unexpected response status")
	ErrMissingID  = errors.New("places: place id is required")
	ErrEmptyQuery = errors.New("places: query is required")
	ErrMissingKey = errors.New("places: api key is not set")
)

type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the Places web service. Every call waits on a shared
// limiter and runs inside a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "places",
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     20 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
		logger: logger,
	}, nil
}

type searchResponse struct {
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Results      []types.RawPlace `json:"results"`
}

type detailsResponse struct {
	Status       string               `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Result       types.RawPlaceDetail `json:"result"`
}

// SearchNearby runs a nearby search around params.Location.
func (c *Client) SearchNearby(ctx context.Context, params types.NearbySearchParams) ([]types.RawPlace, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "SearchNearby", trace.WithAttributes(
		attribute.String("place.type", params.Type),
		attribute.String("place.keyword", params.Keyword),
		attribute.Int("place.radius", params.Radius),
	))
	defer span.End()

	q := url.Values{}
	q.Set("location", formatLatLng(params.Location))
	q.Set("radius", strconv.Itoa(params.Radius))
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	if params.OpenNow {
		q.Set("opennow", "true")
	}

	var resp searchResponse
	if err := c.get(ctx, "/nearbysearch/json", q, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Nearby search failed")
		return nil, fmt.Errorf("failed to search nearby places: %w", err)
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Nearby search returned error status")
		return nil, err
	}

	results := resp.Results
	if results == nil {
		results = []types.RawPlace{}
	}
	if params.MaxResults > 0 && len(results) > params.MaxResults {
		results = results[:params.MaxResults]
	}
	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "Nearby search completed")
	return results, nil
}

// GetDetails fetches the extended record for one place id.
func (c *Client) GetDetails(ctx context.Context, placeID string) (*types.RawPlaceDetail, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "GetDetails", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	if placeID == "" {
		span.RecordError(ErrMissingID)
		span.SetStatus(codes.Error, "Missing place id")
		return nil, ErrMissingID
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)

	var resp detailsResponse
	if err := c.get(ctx, "/details/json", q, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Details lookup failed")
		return nil, fmt.Errorf("failed to get place details: %w", err)
	}
	// ZERO_RESULTS is not a valid answer for a lookup by id.
	if resp.Status != statusOK {
		err := statusError(resp.Status, resp.ErrorMessage)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Details lookup returned error status")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Details fetched")
	return &resp.Result, nil
}

// SearchByText runs a free-text search, biased towards location when given.
func (c *Client) SearchByText(ctx context.Context, query string, location *types.LatLng) ([]types.RawPlace, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "SearchByText", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	q := url.Values{}
	q.Set("query", query)
	if location != nil {
		q.Set("location", formatLatLng(*location))
	}

	var resp searchResponse
	if err := c.get(ctx, "/textsearch/json", q, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Text search failed")
		return nil, fmt.Errorf("failed to search places by text: %w", err)
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Text search returned error status")
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []types.RawPlace{}
	}
	span.SetStatus(codes.Ok, "Text search completed")
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("places returned HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Places request failed",
			slog.String("path", path),
			slog.Any("error", err))
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

func checkStatus(status, message string) error {
	if status == statusOK || status == statusZeroResults {
		return nil
	}
	return statusError(status, message)
}

func statusError(status, message string) error {
	if message != "" {
		return fmt.Errorf("%w: %s (%s)", ErrStatus, status, message)
	}
	return fmt.Errorf("%w: %s", ErrStatus, status)
}

func formatLatLng(l types.LatLng) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}
