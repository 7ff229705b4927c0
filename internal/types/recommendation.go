package types

import "time"

type ActivitySuggestion struct {
	Activity       string   `json:"activity"`
	Description    string   `json:"description"`
	Duration       string   `json:"duration"`
	Cost           string   `json:"cost"`
	GroupSize      string   `json:"groupSize"`
	WhyRecommended string   `json:"whyRecommended"`
	Tips           []string `json:"tips"`
}

// RecommendationRequest is the input of the chat-to-recommendation pipeline.
type RecommendationRequest struct {
	Messages      []ChatMessage `json:"messages" validate:"required,min=1,max=500,dive"`
	Location      LatLng        `json:"location"`
	LocationLabel string        `json:"locationLabel" validate:"max=200"`
	Radius        int           `json:"radius" validate:"omitempty,min=100,max=50000"`
}

// ChatRecommendationRequest runs the pipeline over a stored chat.
type ChatRecommendationRequest struct {
	Location      LatLng
	LocationLabel string `validate:"max=200"`
	Radius        int    `validate:"omitempty,min=100,max=50000"`
	Limit         int    `validate:"omitempty,min=1,max=500"`
}

type RecommendationMetadata struct {
	RequestID     string    `json:"requestId"`
	TotalPlaces   int       `json:"totalPlaces"`
	SearchRadius  int       `json:"searchRadius"`
	Location      LatLng    `json:"location"`
	LocationLabel string    `json:"locationLabel,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// RecommendationResponse is always well-shaped, including when every
// upstream call fell back.
type RecommendationResponse struct {
	Success         bool                   `json:"success"`
	Message         string                 `json:"message"`
	Analysis        PreferenceProfile      `json:"analysis"`
	Recommendations SearchPlan             `json:"recommendations"`
	Places          []PersonalizedPlace    `json:"places"`
	Activities      []ActivitySuggestion   `json:"activities"`
	Metadata        RecommendationMetadata `json:"metadata"`
}

type MoviePreferencesRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=500,dive"`
}
