package types

type LatLng struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type Review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int64  `json:"time,omitempty"`
}

type EditorialSummary struct {
	Overview string `json:"overview,omitempty"`
}

// RawPlace is a single result of a nearby or text search.
type RawPlace struct {
	PlaceID          string        `json:"place_id,omitempty"`
	Name             string        `json:"name"`
	Vicinity         string        `json:"vicinity,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Geometry         Geometry      `json:"geometry"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	Types            []string      `json:"types,omitempty"`
	Photos           []Photo       `json:"photos,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
}

// RawPlaceDetail is the result of a details lookup by place id.
type RawPlaceDetail struct {
	RawPlace
	FormattedPhoneNumber     string            `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string            `json:"international_phone_number,omitempty"`
	Website                  string            `json:"website,omitempty"`
	URL                      string            `json:"url,omitempty"`
	Reviews                  []Review          `json:"reviews,omitempty"`
	EditorialSummary         *EditorialSummary `json:"editorial_summary,omitempty"`
}

// PlaceCandidate is a place flowing through enrichment. Detail fields are
// empty until DetailEnricher has merged them in.
type PlaceCandidate struct {
	PlaceID                  string            `json:"place_id,omitempty"`
	Name                     string            `json:"name"`
	Vicinity                 string            `json:"vicinity,omitempty"`
	FormattedAddress         string            `json:"formatted_address,omitempty"`
	Geometry                 Geometry          `json:"geometry"`
	Rating                   float64           `json:"rating"`
	UserRatingsTotal         int               `json:"user_ratings_total"`
	PriceLevel               *int              `json:"price_level"`
	Types                    []string          `json:"types"`
	Photos                   []Photo           `json:"photos"`
	BusinessStatus           string            `json:"business_status"`
	OpeningHours             *OpeningHours     `json:"opening_hours,omitempty"`
	FormattedPhoneNumber     string            `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string            `json:"international_phone_number,omitempty"`
	Website                  string            `json:"website,omitempty"`
	URL                      string            `json:"url,omitempty"`
	Reviews                  []Review          `json:"reviews,omitempty"`
	EditorialSummary         *EditorialSummary `json:"editorial_summary,omitempty"`
	OriginalRating           *float64          `json:"original_rating,omitempty"`
	OriginalUserRatingsTotal *int              `json:"original_user_ratings_total,omitempty"`
}

// PersonalizedPlace is an enriched candidate annotated for a specific group.
type PersonalizedPlace struct {
	PlaceCandidate
	PersonalizedDescription string   `json:"personalizedDescription"`
	MatchScore              float64  `json:"matchScore"`
	Highlights              []string `json:"highlights"`
	GroupAppeal             string   `json:"groupAppeal"`
}

// NearbySearchParams are the filters for a single nearby search call.
type NearbySearchParams struct {
	Location   LatLng
	Radius     int
	Type       string
	Keyword    string
	OpenNow    bool
	MaxResults int
}
