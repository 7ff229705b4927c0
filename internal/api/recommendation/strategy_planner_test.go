package recommendation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var lisbon = types.LatLng{Lat: 38.7223, Lng: -9.1393}

func TestStrategyPlanner_Plan(t *testing.T) {
	ctx := context.Background()

	t.Run("fallback from profile", func(t *testing.T) {
		planner := NewStrategyPlanner(failingAnalyzer(), nil, testLogger())
		profile := FallbackProfile(chat("Let's get cheap Italian food tonight"))

		plan := planner.Plan(ctx, profile, lisbon, 1500)

		require.Len(t, plan.SearchStrategies, 3)
		assert.Equal(t, types.SearchStrategy{
			Type: types.StrategyPlaceType, Value: "restaurant", Priority: 1,
			Reason: "Places of type restaurant fit the group's interests",
		}, plan.SearchStrategies[0])
		assert.Equal(t, "cafe", plan.SearchStrategies[1].Value)
		assert.Equal(t, 2, plan.SearchStrategies[1].Priority)
		assert.Equal(t, types.StrategyKeyword, plan.SearchStrategies[2].Type)
		assert.Equal(t, "food", plan.SearchStrategies[2].Value)
		assert.Equal(t, 3, plan.SearchStrategies[2].Priority)

		assert.Equal(t, types.SearchFilters{PriceLevel: "1-2", Rating: "3.5+", OpenNow: true}, plan.Filters)
		assert.Equal(t, profile.Keywords, plan.Keywords)
		assert.Equal(t, "Based on the group's interest in food and atmosphere.", plan.RecommendationReason)
		assert.Equal(t, []string{}, plan.AlternativeOptions)
		assert.Contains(t, plan.Tips, "Look for lunch specials and happy hours to keep costs down")
	})

	t.Run("empty profile gets one default restaurant strategy", func(t *testing.T) {
		planner := NewStrategyPlanner(failingAnalyzer(), nil, testLogger())

		plan := planner.Plan(ctx, types.PreferenceProfile{}, lisbon, 1500)

		require.Len(t, plan.SearchStrategies, 1)
		assert.Equal(t, types.StrategyPlaceType, plan.SearchStrategies[0].Type)
		assert.Equal(t, "restaurant", plan.SearchStrategies[0].Value)
		assert.Equal(t, 1, plan.SearchStrategies[0].Priority)
		assert.Equal(t, "1-3", plan.Filters.PriceLevel)
		assert.NotNil(t, plan.Keywords)
	})

	t.Run("backend plan is sorted and filters mapped", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, promptContaining("Plan place searches")).Return(`{
			"searchStrategies": [
				{"type": "keyword", "value": "rooftop", "priority": 3, "reason": "views"},
				{"type": "place_type", "value": "bar", "priority": 1, "reason": "drinks"},
				{"type": "place_type", "value": "night_club", "priority": 2, "reason": "dancing"}
			],
			"filters": {"priceLevel": "whatever", "openNow": false}
		}`, nil).Once()
		planner := NewStrategyPlanner(analyzer, nil, testLogger())
		profile := types.PreferenceProfile{
			Keywords:    []string{"cocktails"},
			Preferences: types.Preferences{Budget: types.BudgetHigh},
		}

		plan := planner.Plan(ctx, profile, lisbon, 800)

		require.Len(t, plan.SearchStrategies, 3)
		assert.Equal(t, "bar", plan.SearchStrategies[0].Value)
		assert.Equal(t, "night_club", plan.SearchStrategies[1].Value)
		assert.Equal(t, "rooftop", plan.SearchStrategies[2].Value)
		assert.Equal(t, "4-5", plan.Filters.PriceLevel)
		assert.Equal(t, "3.5+", plan.Filters.Rating)
		assert.False(t, plan.Filters.OpenNow)
		assert.Equal(t, []string{"cocktails"}, plan.Keywords)
		assert.NotNil(t, plan.Tips)
		analyzer.AssertExpectations(t)
	})

	t.Run("backend plan without strategies falls back", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, mock.Anything).Return(`{"searchStrategies": []}`, nil).Once()
		planner := NewStrategyPlanner(analyzer, nil, testLogger())
		profile := types.PreferenceProfile{PlaceTypes: []string{"museum"}}

		plan := planner.Plan(ctx, profile, lisbon, 1000)
		assert.Equal(t, FallbackPlan(profile), plan)
	})

	t.Run("unknown strategy type falls back", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, mock.Anything).
			Return(`{"searchStrategies": [{"type": "vibes", "value": "chill", "priority": 1}]}`, nil).Once()
		planner := NewStrategyPlanner(analyzer, nil, testLogger())

		plan := planner.Plan(ctx, types.PreferenceProfile{}, lisbon, 1000)
		require.Len(t, plan.SearchStrategies, 1)
		assert.Equal(t, "restaurant", plan.SearchStrategies[0].Value)
	})
}

func TestFallbackPlan_AlwaysHasStrategy(t *testing.T) {
	profiles := []types.PreferenceProfile{
		{},
		{Keywords: []string{"tapas"}},
		{PlaceTypes: []string{"park", "zoo"}},
		FallbackProfile(nil),
		FallbackProfile(chat("expensive formal dinner")),
	}
	for _, p := range profiles {
		plan := FallbackPlan(p)
		assert.GreaterOrEqual(t, len(plan.SearchStrategies), 1)
		for i, s := range plan.SearchStrategies {
			assert.Equal(t, i+1, s.Priority)
		}
	}
}

func TestFallbackPlan_KeywordOnly(t *testing.T) {
	plan := FallbackPlan(types.PreferenceProfile{Keywords: []string{"tapas", "wine"}})
	require.Len(t, plan.SearchStrategies, 1)
	assert.Equal(t, types.StrategyKeyword, plan.SearchStrategies[0].Type)
	assert.Equal(t, "tapas", plan.SearchStrategies[0].Value)
	assert.Equal(t, 1, plan.SearchStrategies[0].Priority)
}
