package recommendation

import (
	"context"
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

// ErrUpstreamUnavailable is the single failure class for the text analyzer:
// transport errors, timeouts and unusable payloads all map to it.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// TextAnalyzer produces a JSON document for a prompt.
type TextAnalyzer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlaceFinder is the place-search backend.
type PlaceFinder interface {
	SearchNearby(ctx context.Context, params types.NearbySearchParams) ([]types.RawPlace, error)
	GetDetails(ctx context.Context, placeID string) (*types.RawPlaceDetail, error)
	SearchByText(ctx context.Context, query string, location *types.LatLng) ([]types.RawPlace, error)
}

// ChatStore loads stored transcripts. It never fails; a chat without
// history yields a placeholder transcript.
type ChatStore interface {
	GetMessages(ctx context.Context, chatID string, limit int) []types.ChatMessage
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}
