package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var errBackendDown = errors.New("backend down")

type MockTextAnalyzer struct {
	mock.Mock
}

func (m *MockTextAnalyzer) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockPlaceFinder struct {
	mock.Mock
}

func (m *MockPlaceFinder) SearchNearby(ctx context.Context, params types.NearbySearchParams) ([]types.RawPlace, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawPlace), args.Error(1)
}

func (m *MockPlaceFinder) GetDetails(ctx context.Context, placeID string) (*types.RawPlaceDetail, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RawPlaceDetail), args.Error(1)
}

func (m *MockPlaceFinder) SearchByText(ctx context.Context, query string, location *types.LatLng) ([]types.RawPlace, error) {
	args := m.Called(ctx, query, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawPlace), args.Error(1)
}

type MockChatStore struct {
	mock.Mock
}

func (m *MockChatStore) GetMessages(ctx context.Context, chatID string, limit int) []types.ChatMessage {
	args := m.Called(ctx, chatID, limit)
	return args.Get(0).([]types.ChatMessage)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// failingAnalyzer returns an analyzer mock that errors on every call.
func failingAnalyzer() *MockTextAnalyzer {
	a := new(MockTextAnalyzer)
	a.On("Generate", mock.Anything, mock.Anything).Return("", errBackendDown)
	return a
}

func promptContaining(fragment string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, fragment)
	})
}

func chat(contents ...string) []types.ChatMessage {
	senders := []string{"Ana", "Rui", "Eva", "Tom"}
	out := make([]types.ChatMessage, len(contents))
	for i, c := range contents {
		out[i] = types.ChatMessage{Sender: senders[i%len(senders)], Content: c}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
