package recommendation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

var fixedNow = time.Date(2025, 3, 14, 18, 30, 0, 0, time.FixedZone("WET", 0))

func setupServiceTest(analyzer TextAnalyzer, finder PlaceFinder, chats ChatStore) *ServiceImpl {
	svc := NewServiceImpl(analyzer, finder, chats, FixedPicker(1), nil, testLogger())
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "req-1" }
	return svc
}

func TestServiceImpl_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("everything upstream down still succeeds", func(t *testing.T) {
		finder := new(MockPlaceFinder)
		finder.On("SearchNearby", mock.Anything, mock.Anything).Return(nil, errBackendDown)
		svc := setupServiceTest(failingAnalyzer(), finder, nil)
		messages := chat("Let's get cheap Italian food tonight", "yes!")

		resp, err := svc.Recommend(ctx, types.RecommendationRequest{
			Messages: messages,
			Location: lisbon,
		})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, responseMessages[1], resp.Message)
		assert.Equal(t, FallbackProfile(messages), resp.Analysis)
		assert.Equal(t, FallbackPlan(resp.Analysis), resp.Recommendations)
		assert.Equal(t, []types.PersonalizedPlace{}, resp.Places)
		assert.Equal(t, FallbackActivities(), resp.Activities)
		assert.Equal(t, types.RecommendationMetadata{
			RequestID:    "req-1",
			TotalPlaces:  0,
			SearchRadius: DefaultRadius,
			Location:     lisbon,
			Timestamp:    fixedNow.UTC(),
		}, resp.Metadata)

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"places":[]`)
		assert.Contains(t, string(raw), `"success":true`)
		finder.AssertNotCalled(t, "GetDetails", mock.Anything, mock.Anything)
	})

	t.Run("full pipeline", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		analyzer.On("Generate", mock.Anything, promptContaining("Chat transcript")).Return(`{
			"interests": ["food"],
			"placeTypes": ["restaurant"],
			"preferences": {"budget": "low", "atmosphere": "casual", "cuisine": ["italian"], "activities": []},
			"keywords": ["pizza"]
		}`, nil).Once()
		analyzer.On("Generate", mock.Anything, promptContaining("Plan place searches")).Return(`{
			"searchStrategies": [{"type": "place_type", "value": "restaurant", "priority": 1, "reason": "food"}],
			"keywords": ["pizza"],
			"filters": {"priceLevel": "1-2", "rating": "4.0+", "openNow": true}
		}`, nil).Once()
		analyzer.On("Generate", mock.Anything, promptContaining("Personalize these places")).Return(`{"places": [
			{"place_id": "pz1", "personalizedDescription": "Wood-fired and cheap", "matchScore": 0.9, "highlights": ["Margherita"], "groupAppeal": "Big tables"}
		]}`, nil).Once()
		analyzer.On("Generate", mock.Anything, promptContaining("Suggest 3 to 5 group activities")).Return(`{"activities": [
			{"activity": "Pizza making class", "description": "Make your own"}
		]}`, nil).Once()

		finder := new(MockPlaceFinder)
		finder.On("SearchNearby", mock.Anything, types.NearbySearchParams{
			Location: lisbon, Radius: 2500, Type: "restaurant", Keyword: "pizza", MaxResults: 20, OpenNow: true,
		}).Return([]types.RawPlace{
			{PlaceID: "pz1", Name: "Pizzeria Uno", Rating: ptr(4.2)},
			{PlaceID: "pz2", Name: "Forno"},
		}, nil).Once()
		finder.On("GetDetails", mock.Anything, "pz1").Return(&types.RawPlaceDetail{
			RawPlace: types.RawPlace{Rating: ptr(4.5)},
			Website:  "https://uno.example",
		}, nil).Once()
		finder.On("GetDetails", mock.Anything, "pz2").Return(nil, errBackendDown).Once()

		svc := setupServiceTest(analyzer, finder, nil)

		resp, err := svc.Recommend(ctx, types.RecommendationRequest{
			Messages:      chat("pizza tonight?", "somewhere cheap"),
			Location:      lisbon,
			LocationLabel: "Lisbon",
			Radius:        2500,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"italian"}, resp.Analysis.Preferences.Cuisine)
		assert.Equal(t, "4.0+", resp.Recommendations.Filters.Rating)
		require.Len(t, resp.Places, 2)
		assert.Equal(t, "pz1", resp.Places[0].PlaceID)
		assert.Equal(t, 4.5, resp.Places[0].Rating)
		assert.Equal(t, 4.2, *resp.Places[0].OriginalRating)
		assert.Equal(t, "Wood-fired and cheap", resp.Places[0].PersonalizedDescription)
		assert.Equal(t, 0.9, resp.Places[0].MatchScore)
		assert.Equal(t, "pz2", resp.Places[1].PlaceID)
		assert.Equal(t, 0.5, resp.Places[1].MatchScore)
		require.Len(t, resp.Activities, 1)
		assert.Equal(t, "Pizza making class", resp.Activities[0].Activity)
		assert.Equal(t, 2, resp.Metadata.TotalPlaces)
		assert.Equal(t, 2500, resp.Metadata.SearchRadius)
		assert.Equal(t, "Lisbon", resp.Metadata.LocationLabel)

		analyzer.AssertExpectations(t)
		finder.AssertExpectations(t)
	})

	t.Run("cancelled context", func(t *testing.T) {
		analyzer := new(MockTextAnalyzer)
		finder := new(MockPlaceFinder)
		svc := setupServiceTest(analyzer, finder, nil)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		resp, err := svc.Recommend(cancelled, types.RecommendationRequest{Messages: chat("hi")})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, context.Canceled)
		analyzer.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestServiceImpl_RecommendForChat(t *testing.T) {
	ctx := context.Background()

	t.Run("uses stored transcript", func(t *testing.T) {
		stored := chat("museum then dinner?", "sounds good")
		chats := new(MockChatStore)
		chats.On("GetMessages", mock.Anything, "team-42", 50).Return(stored).Once()
		finder := new(MockPlaceFinder)
		finder.On("SearchNearby", mock.Anything, mock.Anything).Return([]types.RawPlace{}, nil)
		svc := setupServiceTest(failingAnalyzer(), finder, chats)

		resp, err := svc.RecommendForChat(ctx, "team-42", types.ChatRecommendationRequest{
			Location: lisbon,
			Radius:   1000,
			Limit:    50,
		})

		require.NoError(t, err)
		assert.Equal(t, FallbackProfile(stored), resp.Analysis)
		assert.Equal(t, 1000, resp.Metadata.SearchRadius)
		assert.Empty(t, resp.Places)
		chats.AssertExpectations(t)
	})

	t.Run("cancelled before loading the chat", func(t *testing.T) {
		chats := new(MockChatStore)
		svc := setupServiceTest(new(MockTextAnalyzer), new(MockPlaceFinder), chats)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.RecommendForChat(cancelled, "team-42", types.ChatRecommendationRequest{Location: lisbon})

		assert.ErrorIs(t, err, context.Canceled)
		chats.AssertNotCalled(t, "GetMessages", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLocationHint(t *testing.T) {
	assert.Equal(t, "Lisbon", locationHint(lisbon, "Lisbon"))
	assert.Equal(t, "38.7223,-9.1393", locationHint(lisbon, ""))
}
