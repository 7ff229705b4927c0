package types

type StrategyType string

const (
	StrategyPlaceType StrategyType = "place_type"
	StrategyKeyword   StrategyType = "keyword"
)

// SearchStrategy is one place-search instruction. Lower priority runs first.
type SearchStrategy struct {
	Type     StrategyType `json:"type"`
	Value    string       `json:"value"`
	Priority int          `json:"priority"`
	Reason   string       `json:"reason"`
}

type SearchFilters struct {
	PriceLevel string `json:"priceLevel"`
	Rating     string `json:"rating"`
	OpenNow    bool   `json:"openNow"`
}

// SearchPlan is the ordered set of searches derived from a PreferenceProfile.
type SearchPlan struct {
	SearchStrategies     []SearchStrategy `json:"searchStrategies"`
	Keywords             []string         `json:"keywords"`
	Filters              SearchFilters    `json:"filters"`
	RecommendationReason string           `json:"recommendationReason"`
	AlternativeOptions   []string         `json:"alternativeOptions"`
	Tips                 []string         `json:"tips"`
}
