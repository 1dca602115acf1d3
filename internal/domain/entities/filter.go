package entities

// SortKey selects the ordering applied to a filtered provider list
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDistance  SortKey = "distance"
	SortName      SortKey = "name"
	SortCity      SortKey = "city"
	SortType      SortKey = "type"
	SortRating    SortKey = "rating"
	SortBeds      SortKey = "beds"
)

// FilterSpec is a flat bag of optional predicates. An absent field means
// that dimension is unconstrained.
type FilterSpec struct {
	Types         []ProviderType `json:"types,omitempty"`
	Specialties   []string       `json:"specialties,omitempty"`
	Services      []string       `json:"services,omitempty"`
	Equipment     []string       `json:"equipment,omitempty"`
	MaxDistanceKm *float64       `json:"max_distance_km,omitempty"`
	MinRating     *float64       `json:"min_rating,omitempty"`
	OpenNow       bool           `json:"open_now,omitempty"`
	Open24h       bool           `json:"open_24h,omitempty"`
	CNAMGS        bool           `json:"cnamgs,omitempty"`
	CNSS          bool           `json:"cnss,omitempty"`
	Urgent        bool           `json:"urgent,omitempty"`
	SearchText    string         `json:"search_text,omitempty"`
	Province      string         `json:"province,omitempty"`
	Cities        []string       `json:"cities,omitempty"`
	SortBy        SortKey        `json:"sort_by,omitempty"`
}

// IsEmpty reports whether no predicate is set (filtering is then the identity)
func (s FilterSpec) IsEmpty() bool {
	return len(s.Types) == 0 &&
		len(s.Specialties) == 0 &&
		len(s.Services) == 0 &&
		len(s.Equipment) == 0 &&
		s.MaxDistanceKm == nil &&
		s.MinRating == nil &&
		!s.OpenNow && !s.Open24h &&
		!s.CNAMGS && !s.CNSS && !s.Urgent &&
		s.SearchText == "" &&
		s.Province == "" &&
		len(s.Cities) == 0
}

// ProviderStats aggregates counts over a provider list
type ProviderStats struct {
	Total           int                  `json:"total"`
	ByType          map[ProviderType]int `json:"by_type"`
	ByProvince      map[string]int       `json:"by_province"`
	Open24h         int                  `json:"open_24h"`
	CNAMGSAccepted  int                  `json:"cnamgs_accepted"`
	WithCoordinates int                  `json:"with_coordinates"`
}

// ScoredProvider pairs a provider with its suggestion score
type ScoredProvider struct {
	Provider *HealthProvider `json:"provider"`
	Score    float64         `json:"score"`
}

// Suggestions is the result of a smart-suggestion query
type Suggestions struct {
	Providers []ScoredProvider  `json:"providers"`
	Nearby    []*HealthProvider `json:"nearby,omitempty"`
	Services  []string          `json:"services,omitempty"`
}
