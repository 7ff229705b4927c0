package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-chat-recommendations/internal/types"
)

func formatTranscript(messages []types.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		sender := m.Sender
		if sender == "" {
			sender = "Someone"
		}
		fmt.Fprintf(&b, "%s: %s\n", sender, m.Content)
	}
	return b.String()
}

func profileJSON(profile types.PreferenceProfile) string {
	data, err := json.Marshal(profile)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func getPreferencePrompt(messages []types.ChatMessage, locationHint string) string {
	return fmt.Sprintf(`
            Analyze this group chat and work out what the group wants to do together near %s.
            Chat transcript:
            %s
            Return the response STRICTLY as a JSON object with:
            {
            "interests": ["short interest tags, e.g. food, entertainment, sightseeing"],
            "placeTypes": ["Google Places types, e.g. restaurant, cafe, bar, museum, movie_theater"],
            "preferences": {
                "budget": "low | medium | high",
                "atmosphere": "casual, formal, romantic, lively...",
                "cuisine": ["cuisines mentioned"],
                "activities": ["activities mentioned"]
            },
            "constraints": ["dietary needs, accessibility, timing..."],
            "groupInfo": {"size": "small | medium | large", "demographics": "who the group seems to be"},
            "keywords": ["up to 5 search keywords"],
            "summary": "One sentence describing what the group is after."
            }`, locationHint, formatTranscript(messages))
}

func getStrategyPrompt(profile types.PreferenceProfile, location types.LatLng, radius int) string {
	return fmt.Sprintf(`
            Plan place searches for a group near latitude %0.4f and longitude %0.4f, within %d meters.
            Group preferences: %s
            Return the response STRICTLY as a JSON object with:
            {
            "searchStrategies": [
                {"type": "place_type | keyword", "value": "Google Places type or keyword", "priority": <integer starting at 1>, "reason": "why"}
            ],
            "keywords": ["search keywords"],
            "filters": {"priceLevel": "e.g. 1-3", "rating": "e.g. 4.0+", "openNow": <bool>},
            "recommendationReason": "why these searches fit the group",
            "alternativeOptions": ["other ideas"],
            "tips": ["practical tips for the outing"]
            }`, location.Lat, location.Lng, radius, profileJSON(profile))
}

type placeBrief struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Rating     float64  `json:"rating"`
	PriceLevel *int     `json:"price_level"`
	Address    string   `json:"address"`
	Summary    string   `json:"summary,omitempty"`
}

func getPersonalizationPrompt(candidates []types.PlaceCandidate, profile types.PreferenceProfile) string {
	briefs := make([]placeBrief, 0, len(candidates))
	for _, c := range candidates {
		b := placeBrief{
			PlaceID:    c.PlaceID,
			Name:       c.Name,
			Types:      c.Types,
			Rating:     c.Rating,
			PriceLevel: c.PriceLevel,
			Address:    c.Vicinity,
		}
		if b.Address == "" {
			b.Address = c.FormattedAddress
		}
		if c.EditorialSummary != nil {
			b.Summary = c.EditorialSummary.Overview
		}
		briefs = append(briefs, b)
	}
	places, _ := json.Marshal(briefs)

	return fmt.Sprintf(`
            Personalize these places for a group.
            Group preferences: %s
            Places: %s
            Return the response STRICTLY as a JSON object with:
            {
            "places": [
                {
                "place_id": "the place_id exactly as given",
                "personalizedDescription": "1-2 sentences on why this place suits this group",
                "matchScore": <float between 0 and 1>,
                "highlights": ["short highlights"],
                "groupAppeal": "why it works for a group"
                }
            ]
            }`, profileJSON(profile), string(places))
}

func getActivityPrompt(profile types.PreferenceProfile, locationLabel string) string {
	if locationLabel == "" {
		locationLabel = "the group's area"
	}
	return fmt.Sprintf(`
            Suggest 3 to 5 group activities in %s for a group with these preferences: %s
            Return the response STRICTLY as a JSON object with:
            {
            "activities": [
                {
                "activity": "Name of the activity",
                "description": "What the group would do",
                "duration": "e.g. 2-3 hours",
                "cost": "e.g. $15-25 per person",
                "groupSize": "e.g. 4-8 people",
                "whyRecommended": "link to the group's preferences",
                "tips": ["practical tips"]
                }
            ]
            }`, locationLabel, profileJSON(profile))
}
