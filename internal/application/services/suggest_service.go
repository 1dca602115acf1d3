package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/geo"
)

const (
	maxSuggestedProviders = 5
	maxNearbyProviders    = 3
)

// commonServices is the fixed vocabulary surfaced as service suggestions
var commonServices = []string{
	"Urgences",
	"Consultations",
	"Vaccination",
	"Maternité",
	"Pédiatrie",
	"Radiologie",
	"Analyses de laboratoire",
	"Délivrance de médicaments",
	"Chirurgie",
	"Pharmacie de garde",
}

// SuggestService produces smart suggestions for a free-text query
type SuggestService struct {
	repo       repositories.ProviderRepository
	searchRepo repositories.ProviderSearchRepository
}

// NewSuggestService creates a new suggest service
func NewSuggestService(repo repositories.ProviderRepository, searchRepo repositories.ProviderSearchRepository) *SuggestService {
	return &SuggestService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Suggest scores the provider set against the query. When the search index
// is reachable it narrows the candidate set first; otherwise the whole
// stored set is scored.
func (s *SuggestService) Suggest(ctx context.Context, query string, userLocation *entities.Coordinates) (*entities.Suggestions, error) {
	records, err := s.candidates(ctx, query)
	if err != nil {
		return nil, err
	}
	return SuggestFrom(query, records, userLocation), nil
}

func (s *SuggestService) candidates(ctx context.Context, query string) ([]*entities.HealthProvider, error) {
	if s.searchRepo != nil {
		matches, err := s.searchRepo.Suggest(ctx, query, 50)
		if err == nil && len(matches) > 0 {
			return matches, nil
		}
		if err != nil {
			log.Printf("Warning: search index unavailable, falling back to store: %v", err)
		}
	}
	return s.repo.List(ctx, repositories.ProviderFilter{})
}

// SuggestFrom scores every record against the query with fixed weights and
// returns the top matches, the nearest records when a location is given,
// and any common services related to the query.
func SuggestFrom(query string, records []*entities.HealthProvider, userLocation *entities.Coordinates) *entities.Suggestions {
	q := strings.ToLower(strings.TrimSpace(query))

	scored := make([]entities.ScoredProvider, 0, len(records))
	for _, record := range records {
		score := suggestionScore(record, q)
		if score > 0 {
			scored = append(scored, entities.ScoredProvider{Provider: record, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxSuggestedProviders {
		scored = scored[:maxSuggestedProviders]
	}

	return &entities.Suggestions{
		Providers: scored,
		Nearby:    nearestProviders(records, userLocation),
		Services:  relatedServices(q),
	}
}

func suggestionScore(p *entities.HealthProvider, q string) float64 {
	if q == "" {
		return 0
	}

	score := 0.0

	name := strings.ToLower(p.Name)
	if name == q {
		score += 10
	} else if strings.Contains(name, q) {
		score += 5
	}

	if strings.Contains(string(p.Type), q) {
		score += 4
	}

	if strings.Contains(strings.ToLower(p.City), q) {
		score += 3
	}

	for _, service := range p.Services {
		if strings.Contains(strings.ToLower(service), q) {
			score += 3
			break
		}
	}

	for _, specialty := range p.Specialties {
		if strings.Contains(strings.ToLower(specialty), q) {
			score += 2
			break
		}
	}

	if strings.Contains(q, "urgence") && p.Open24h {
		score += 5
	}

	if p.Insurance.CNAMGS || p.Insurance.CNSS {
		score += 1
	}

	return score
}

func nearestProviders(records []*entities.HealthProvider, userLocation *entities.Coordinates) []*entities.HealthProvider {
	if userLocation == nil {
		return nil
	}

	located := make([]*entities.HealthProvider, 0, len(records))
	for _, record := range records {
		if record.Coordinates != nil {
			located = append(located, record)
		}
	}

	sort.SliceStable(located, func(i, j int) bool {
		di := geo.DistanceKm(userLocation.Lat, userLocation.Lng, located[i].Coordinates.Lat, located[i].Coordinates.Lng)
		dj := geo.DistanceKm(userLocation.Lat, userLocation.Lng, located[j].Coordinates.Lat, located[j].Coordinates.Lng)
		return di < dj
	})

	if len(located) > maxNearbyProviders {
		located = located[:maxNearbyProviders]
	}
	return located
}

func relatedServices(q string) []string {
	if q == "" {
		return nil
	}

	var related []string
	for _, service := range commonServices {
		lowered := strings.ToLower(service)
		if strings.Contains(lowered, q) || strings.Contains(q, lowered) {
			related = append(related, service)
		}
	}
	return related
}
