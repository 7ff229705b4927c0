package types

import "strings"

// Budget is the spending level inferred for a group.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// NormalizeBudget maps any upstream value onto low, medium or high.
// Unknown values become medium.
func NormalizeBudget(raw string) Budget {
	switch Budget(strings.ToLower(strings.TrimSpace(raw))) {
	case BudgetLow:
		return BudgetLow
	case BudgetHigh:
		return BudgetHigh
	default:
		return BudgetMedium
	}
}

// PreferenceProfile is the structured reading of what a group wants.
type PreferenceProfile struct {
	Interests   []string    `json:"interests"`
	PlaceTypes  []string    `json:"placeTypes"`
	Preferences Preferences `json:"preferences"`
	Constraints []string    `json:"constraints"`
	GroupInfo   GroupInfo   `json:"groupInfo"`
	Keywords    []string    `json:"keywords"`
	Summary     string      `json:"summary"`
}

type Preferences struct {
	Budget     Budget   `json:"budget"`
	Atmosphere string   `json:"atmosphere"`
	Cuisine    []string `json:"cuisine"`
	Activities []string `json:"activities"`
}

type GroupInfo struct {
	Size         string `json:"size"`
	Demographics string `json:"demographics"`
}

// MovieProfile is the movie-night counterpart of PreferenceProfile.
type MovieProfile struct {
	Genres   []string `json:"genres"`
	Mood     string   `json:"mood"`
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
}
