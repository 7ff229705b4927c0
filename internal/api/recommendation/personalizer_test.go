package recommendation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

func candidates(n int) []types.PlaceCandidate {
	out := make([]types.PlaceCandidate, n)
	for i := range out {
		out[i] = BasicProjection(types.RawPlace{PlaceID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Place %d", i)})
	}
	return out
}

func TestPersonalizer_Personalize(t *testing.T) {
	ctx := context.Background()
	profile := FallbackProfile(chat("cheap italian food"))

	t.Run("no candidates skips the analyzer", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		p := NewPersonalizer(analyzer, nil, testLogger())

		got := p.Personalize(ctx, nil, profile)

		assert.NotNil(t, got)
		assert.Empty(t, got)
		analyzer.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("analyzer failure gives defaults", func(t *testing.T) {
		p := NewPersonalizer(failingAnalyzer(), nil, testLogger())

		got := p.Personalize(ctx, candidates(3), profile)

		require.Len(t, got, 3)
		for i, place := range got {
			assert.Equal(t, fmt.Sprintf("p%d", i), place.PlaceID)
			assert.Equal(t, place.Name, place.PersonalizedDescription)
			assert.Equal(t, 0.5, place.MatchScore)
			assert.Equal(t, []string{}, place.Highlights)
			assert.Equal(t, "Good option for groups", place.GroupAppeal)
		}
	})

	t.Run("annotations matched by id within the first five", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, promptContaining("Personalize these places")).Return(`{"places": [
			{"place_id": "p1", "personalizedDescription": "Cozy trattoria", "matchScore": 0.92, "highlights": ["pasta"], "groupAppeal": "Long tables"},
			{"place_id": "p1", "personalizedDescription": "ignored duplicate", "matchScore": 0.1},
			{"place_id": "p3", "matchScore": 1.7},
			{"place_id": "p4", "matchScore": -2},
			{"place_id": "p6", "personalizedDescription": "outside subset", "matchScore": 0.99},
			{"place_id": "unknown", "matchScore": 0.8}
		]}`, nil).Once()
		p := NewPersonalizer(analyzer, nil, testLogger())

		got := p.Personalize(ctx, candidates(7), profile)

		require.Len(t, got, 7)
		assert.Equal(t, "Cozy trattoria", got[1].PersonalizedDescription)
		assert.Equal(t, 0.92, got[1].MatchScore)
		assert.Equal(t, []string{"pasta"}, got[1].Highlights)
		assert.Equal(t, "Long tables", got[1].GroupAppeal)

		assert.Equal(t, 1.0, got[3].MatchScore)
		assert.Equal(t, "Place 3", got[3].PersonalizedDescription)
		assert.Equal(t, 0.0, got[4].MatchScore)

		assert.Equal(t, 0.5, got[0].MatchScore)
		assert.Equal(t, 0.5, got[6].MatchScore)
		assert.Equal(t, "Place 6", got[6].PersonalizedDescription)
		for i, place := range got {
			assert.Equal(t, fmt.Sprintf("p%d", i), place.PlaceID)
		}
		analyzer.AssertExpectations(t)
	})

	t.Run("prompt only carries the first five", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return !containsAll(prompt, "p5") && containsAll(prompt, "p0", "p4")
		})).Return(`{"places": []}`, nil).Once()
		p := NewPersonalizer(analyzer, nil, testLogger())

		got := p.Personalize(ctx, candidates(6), profile)
		assert.Len(t, got, 6)
		analyzer.AssertExpectations(t)
	})
}

func containsAll(prompt string, ids ...string) bool {
	for _, id := range ids {
		if !strings.Contains(prompt, `"`+id+`"`) {
			return false
		}
	}
	return true
}
