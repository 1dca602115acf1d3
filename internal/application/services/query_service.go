package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
)

// Daytime window used by the open-now heuristic when a provider is not
// marked open 24h. Coarse on purpose; per-day opening hours are not parsed.
const (
	openNowStartHour = 8
	openNowEndHour   = 18
)

// equipmentServices maps equipment filter terms to the service names they
// imply on a provider record.
var equipmentServices = map[string]string{
	"scanner":     "Scanner",
	"irm":         "IRM",
	"radiologie":  "Radiologie",
	"echographie": "Échographie",
	"laboratoire": "Analyses de laboratoire",
}

// QueryService answers read-side questions over the provider set
type QueryService struct {
	repo repositories.ProviderRepository
}

// NewQueryService creates a new query service
func NewQueryService(repo repositories.ProviderRepository) *QueryService {
	return &QueryService{repo: repo}
}

// GetByID retrieves a provider by ID
func (s *QueryService) GetByID(ctx context.Context, id string) (*entities.HealthProvider, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves providers with store-level filters
func (s *QueryService) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.HealthProvider, error) {
	return s.repo.List(ctx, filter)
}

// Search loads the provider set, filters it against the spec and sorts it
func (s *QueryService) Search(ctx context.Context, spec entities.FilterSpec) ([]*entities.HealthProvider, error) {
	records, err := s.repo.List(ctx, repositories.ProviderFilter{})
	if err != nil {
		return nil, err
	}

	result := Filter(records, spec)
	Sort(result, spec.SortBy)
	return result, nil
}

// Stats aggregates counts over the whole provider set
func (s *QueryService) Stats(ctx context.Context) (*entities.ProviderStats, error) {
	records, err := s.repo.List(ctx, repositories.ProviderFilter{})
	if err != nil {
		return nil, err
	}
	return Stats(records), nil
}

// Filter applies the spec's predicates conjunctively. An empty spec is the
// identity. List dimensions are OR within themselves.
func Filter(records []*entities.HealthProvider, spec entities.FilterSpec) []*entities.HealthProvider {
	return FilterAt(records, spec, time.Now())
}

// FilterAt is Filter with an explicit clock for the open-now heuristic
func FilterAt(records []*entities.HealthProvider, spec entities.FilterSpec, now time.Time) []*entities.HealthProvider {
	if spec.IsEmpty() {
		return records
	}

	result := make([]*entities.HealthProvider, 0, len(records))
	for _, record := range records {
		if matches(record, spec, now) {
			result = append(result, record)
		}
	}
	return result
}

func matches(p *entities.HealthProvider, spec entities.FilterSpec, now time.Time) bool {
	if len(spec.Types) > 0 && !containsType(spec.Types, p.Type) {
		return false
	}

	if len(spec.Specialties) > 0 && !anyTermMatches(spec.Specialties, p.Specialties) {
		return false
	}

	if len(spec.Services) > 0 && !matchesServices(p, spec.Services) {
		return false
	}

	if len(spec.Equipment) > 0 && !matchesEquipment(p, spec.Equipment) {
		return false
	}

	// Distance is filled in by a caller-supplied geolocation step; records
	// without one are not excluded by a distance cap.
	if spec.MaxDistanceKm != nil && p.DistanceKm != nil && *p.DistanceKm > *spec.MaxDistanceKm {
		return false
	}

	if spec.MinRating != nil && p.Rating < *spec.MinRating {
		return false
	}

	if spec.OpenNow && !isOpenAt(p, now) {
		return false
	}

	if spec.Open24h && !p.Open24h {
		return false
	}

	if spec.CNAMGS && !p.Insurance.CNAMGS {
		return false
	}

	if spec.CNSS && !p.Insurance.CNSS {
		return false
	}

	if spec.Urgent && !handlesUrgencies(p) {
		return false
	}

	if spec.Province != "" && p.Province != spec.Province {
		return false
	}

	// The explicit city allow-list takes precedence over free-text search
	if len(spec.Cities) > 0 {
		return containsFold(spec.Cities, p.City)
	}

	if spec.SearchText != "" && !matchesSearchText(p, spec.SearchText) {
		return false
	}

	return true
}

func containsType(types []entities.ProviderType, t entities.ProviderType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// anyTermMatches reports whether any filter term appears in any of the
// record's values (case-insensitive substring)
func anyTermMatches(terms, values []string) bool {
	for _, term := range terms {
		lowered := strings.ToLower(term)
		for _, value := range values {
			if strings.Contains(strings.ToLower(value), lowered) {
				return true
			}
		}
	}
	return false
}

func matchesServices(p *entities.HealthProvider, terms []string) bool {
	for _, term := range terms {
		lowered := strings.ToLower(term)
		// An emergency department counts as the "urgences" service even
		// when the source never tagged it
		if strings.Contains(lowered, "urgence") && p.Open24h {
			return true
		}
		for _, service := range p.Services {
			if strings.Contains(strings.ToLower(service), lowered) {
				return true
			}
		}
	}
	return false
}

func matchesEquipment(p *entities.HealthProvider, equipment []string) bool {
	for _, item := range equipment {
		service, known := equipmentServices[strings.ToLower(item)]
		if !known {
			continue
		}
		lowered := strings.ToLower(service)
		for _, s := range p.Services {
			if strings.Contains(strings.ToLower(s), lowered) {
				return true
			}
		}
	}
	return false
}

func isOpenAt(p *entities.HealthProvider, now time.Time) bool {
	if p.Open24h {
		return true
	}
	hour := now.Hour()
	return hour >= openNowStartHour && hour < openNowEndHour
}

func handlesUrgencies(p *entities.HealthProvider) bool {
	if p.Open24h {
		return true
	}
	for _, service := range p.Services {
		if strings.Contains(strings.ToLower(service), "urgence") {
			return true
		}
	}
	return false
}

func matchesSearchText(p *entities.HealthProvider, text string) bool {
	query := strings.ToLower(text)

	haystack := []string{p.Name, p.City, p.Address, string(p.Type), p.Province}
	haystack = append(haystack, p.Services...)
	haystack = append(haystack, p.Specialties...)

	for _, field := range haystack {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Sort orders records in place. An unknown key leaves the input order
// untouched.
func Sort(records []*entities.HealthProvider, key entities.SortKey) {
	switch key {
	case entities.SortRelevance:
		sort.SliceStable(records, func(i, j int) bool {
			return relevanceScore(records[i]) > relevanceScore(records[j])
		})
	case entities.SortDistance:
		sort.SliceStable(records, func(i, j int) bool {
			return distanceOf(records[i]) < distanceOf(records[j])
		})
	case entities.SortName:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Name < records[j].Name
		})
	case entities.SortCity:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].City < records[j].City
		})
	case entities.SortType:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Type < records[j].Type
		})
	case entities.SortRating:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Rating > records[j].Rating
		})
	case entities.SortBeds:
		sort.SliceStable(records, func(i, j int) bool {
			return bedsOf(records[i]) > bedsOf(records[j])
		})
	}
}

func relevanceScore(p *entities.HealthProvider) float64 {
	score := 0.0
	if p.Insurance.CNAMGS || p.Insurance.CNSS {
		score += 3
	}
	if p.Open24h {
		score += 2
	}
	score += 0.5 * float64(len(p.Services))
	if p.BedCount != nil && *p.BedCount > 0 {
		score += math.Log(float64(*p.BedCount))
	}
	return score
}

func distanceOf(p *entities.HealthProvider) float64 {
	if p.DistanceKm == nil {
		return math.MaxFloat64
	}
	return *p.DistanceKm
}

func bedsOf(p *entities.HealthProvider) int {
	if p.BedCount == nil {
		return 0
	}
	return *p.BedCount
}

// Stats aggregates counts over a provider list
func Stats(records []*entities.HealthProvider) *entities.ProviderStats {
	stats := &entities.ProviderStats{
		Total:      len(records),
		ByType:     make(map[entities.ProviderType]int),
		ByProvince: make(map[string]int),
	}

	for _, p := range records {
		stats.ByType[p.Type]++
		stats.ByProvince[p.Province]++
		if p.Open24h {
			stats.Open24h++
		}
		if p.Insurance.CNAMGS {
			stats.CNAMGSAccepted++
		}
		if p.Coordinates != nil {
			stats.WithCoordinates++
		}
	}

	return stats
}
