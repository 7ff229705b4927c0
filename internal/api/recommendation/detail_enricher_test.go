package recommendation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

func TestDetailEnricher_Enrich(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed outcomes keep order and length", func(t *testing.T) {
		places := []types.RawPlace{
			{PlaceID: "ok", Name: "Tasca", Rating: ptr(4.1)},
			{PlaceID: "down", Name: "Cervejaria", Rating: ptr(3.9), PriceLevel: ptr(2)},
			{Name: "No id"},
			{PlaceID: "empty", Name: "Ghost"},
		}
		finder := new(MockPlaceFinder)
		finder.On("GetDetails", mock.Anything, "ok").Return(&types.RawPlaceDetail{
			RawPlace: types.RawPlace{Name: "Tasca do Chico", Rating: ptr(4.6)},
			Website:  "https://tasca.example",
		}, nil).Once()
		finder.On("GetDetails", mock.Anything, "down").Return(nil, errBackendDown).Once()
		finder.On("GetDetails", mock.Anything, "empty").Return(nil, nil).Once()
		d := NewDetailEnricher(finder, nil, testLogger())

		got := d.Enrich(ctx, places)

		require.Len(t, got, 4)
		assert.Equal(t, "ok", got[0].PlaceID)
		assert.Equal(t, "Tasca do Chico", got[0].Name)
		assert.Equal(t, 4.6, got[0].Rating)
		assert.Equal(t, "https://tasca.example", got[0].Website)
		require.NotNil(t, got[0].OriginalRating)
		assert.Equal(t, 4.1, *got[0].OriginalRating)

		assert.Equal(t, BasicProjection(places[1]), got[1])
		assert.Equal(t, BasicProjection(places[2]), got[2])
		assert.Equal(t, BasicProjection(places[3]), got[3])
		finder.AssertExpectations(t)
		finder.AssertNotCalled(t, "GetDetails", mock.Anything, "")
	})

	t.Run("no places", func(t *testing.T) {
		d := NewDetailEnricher(new(MockPlaceFinder), nil, testLogger())
		got := d.Enrich(ctx, []types.RawPlace{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestBasicProjection_Defaults(t *testing.T) {
	c := BasicProjection(types.RawPlace{PlaceID: "p1", Name: "Bare"})

	assert.Equal(t, 0.0, c.Rating)
	assert.Equal(t, 0, c.UserRatingsTotal)
	assert.Nil(t, c.PriceLevel)
	assert.Equal(t, []string{}, c.Types)
	assert.Equal(t, []types.Photo{}, c.Photos)
	assert.Equal(t, "OPERATIONAL", c.BusinessStatus)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price_level":null`)
	assert.Contains(t, string(raw), `"types":[]`)
	assert.Contains(t, string(raw), `"photos":[]`)
	assert.Contains(t, string(raw), `"rating":0`)
	assert.NotContains(t, string(raw), "original_rating")
}

func TestBasicProjection_DoesNotAliasInput(t *testing.T) {
	raw := types.RawPlace{PlaceID: "p1", Types: []string{"bar"}, PriceLevel: ptr(3)}
	c := BasicProjection(raw)
	c.Types[0] = "changed"
	*c.PriceLevel = 1

	assert.Equal(t, "bar", raw.Types[0])
	assert.Equal(t, 3, *raw.PriceLevel)
}

func TestMergePlaceDetails(t *testing.T) {
	basic := types.RawPlace{
		PlaceID:          "basic-id",
		Name:             "Basic Name",
		Vicinity:         "Rua A",
		Geometry:         types.Geometry{Location: types.LatLng{Lat: 1, Lng: 2}},
		Rating:           ptr(3.8),
		UserRatingsTotal: ptr(120),
		PriceLevel:       ptr(2),
		Types:            []string{"restaurant"},
		BusinessStatus:   "CLOSED_TEMPORARILY",
	}

	t.Run("detail fields win when set", func(t *testing.T) {
		detail := types.RawPlaceDetail{
			RawPlace: types.RawPlace{
				PlaceID:          "detail-id",
				Name:             "Detail Name",
				Rating:           ptr(4.4),
				UserRatingsTotal: ptr(300),
				Types:            []string{"restaurant", "food"},
				BusinessStatus:   "OPERATIONAL",
			},
			FormattedPhoneNumber: "21 000 0000",
			Reviews:              []types.Review{{AuthorName: "Ana", Rating: 5, Text: "great"}},
			EditorialSummary:     &types.EditorialSummary{Overview: "Classic spot"},
		}

		c := MergePlaceDetails(basic, detail)

		assert.Equal(t, "basic-id", c.PlaceID)
		assert.Equal(t, "Detail Name", c.Name)
		assert.Equal(t, "Rua A", c.Vicinity)
		assert.Equal(t, types.LatLng{Lat: 1, Lng: 2}, c.Geometry.Location)
		assert.Equal(t, 4.4, c.Rating)
		assert.Equal(t, 300, c.UserRatingsTotal)
		require.NotNil(t, c.PriceLevel)
		assert.Equal(t, 2, *c.PriceLevel)
		assert.Equal(t, []string{"restaurant", "food"}, c.Types)
		assert.Equal(t, "OPERATIONAL", c.BusinessStatus)
		assert.Equal(t, "21 000 0000", c.FormattedPhoneNumber)
		assert.Len(t, c.Reviews, 1)
		assert.Equal(t, "Classic spot", c.EditorialSummary.Overview)
		assert.Equal(t, 3.8, *c.OriginalRating)
		assert.Equal(t, 120, *c.OriginalUserRatingsTotal)
	})

	t.Run("empty detail keeps basic fields", func(t *testing.T) {
		c := MergePlaceDetails(basic, types.RawPlaceDetail{})

		assert.Equal(t, "Basic Name", c.Name)
		assert.Equal(t, 3.8, c.Rating)
		assert.Equal(t, "CLOSED_TEMPORARILY", c.BusinessStatus)
		assert.Empty(t, c.Website)
	})

	t.Run("original rating absent when basic had none", func(t *testing.T) {
		c := MergePlaceDetails(types.RawPlace{PlaceID: "x"}, types.RawPlaceDetail{
			RawPlace: types.RawPlace{Rating: ptr(4.0)},
		})
		assert.Equal(t, 4.0, c.Rating)
		assert.Nil(t, c.OriginalRating)
		assert.Nil(t, c.OriginalUserRatingsTotal)
	})
}
