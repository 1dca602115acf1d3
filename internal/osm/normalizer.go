package osm

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/geo"
)

// PlaceholderName is used when the source record carries no name tag
const PlaceholderName = "Établissement de santé"

// DropStats counts records the normalizer excluded, so operators can watch
// data-quality drift between sync runs.
type DropStats struct {
	MissingCoords int `json:"missing_coords"`
	OutOfBounds   int `json:"out_of_bounds"`
}

// publicOperatorMarkers mark a provider as state-run when found in the
// operator tag (lower-cased substring match).
var publicOperatorMarkers = []string{
	"ministère", "ministere", "gouvernement", "état", "etat gabonais", "public",
}

// Normalize converts raw Overpass elements into canonical provider records.
// Two-stage filtering, both silent per record: elements without usable
// coordinates are dropped first, then anything outside the national bounding
// box. The second stage tolerates globally addressed upstream data while
// keeping the store limited to one country's territory.
func Normalize(elements []RawElement, now time.Time) ([]*entities.HealthProvider, DropStats) {
	var stats DropStats
	providers := make([]*entities.HealthProvider, 0, len(elements))

	for _, el := range elements {
		coords := extractCoordinates(el)
		if coords == nil {
			stats.MissingCoords++
			continue
		}
		providers = append(providers, normalizeElement(el, *coords, now))
	}

	inBounds := providers[:0]
	for _, p := range providers {
		if !geo.InNationalBounds(p.Coordinates.Lat, p.Coordinates.Lng) {
			stats.OutOfBounds++
			continue
		}
		inBounds = append(inBounds, p)
	}

	return inBounds, stats
}

func extractCoordinates(el RawElement) *entities.Coordinates {
	if el.Lat != nil && el.Lon != nil {
		return &entities.Coordinates{Lat: *el.Lat, Lng: *el.Lon}
	}
	if el.Center != nil {
		return &entities.Coordinates{Lat: el.Center.Lat, Lng: el.Center.Lon}
	}
	return nil
}

func normalizeElement(el RawElement, coords entities.Coordinates, now time.Time) *entities.HealthProvider {
	tags := el.Tags
	province := geo.ClassifyProvince(coords.Lat, coords.Lng)

	name := strings.TrimSpace(tags.Name)
	if name == "" {
		name = PlaceholderName
	}

	city := strings.TrimSpace(tags.AddrCity)
	if city == "" {
		city = geo.DefaultCity(province)
	}

	open24h := tags.Emergency == "yes"

	provider := &entities.HealthProvider{
		ID:           fmt.Sprintf("OSM_%d", el.ID),
		SourceID:     el.ID,
		Type:         ClassifyType(tags),
		Name:         name,
		Province:     province,
		City:         city,
		Address:      buildAddress(tags),
		Phones:       collectPhones(tags),
		Email:        tags.Email,
		Website:      tags.Website,
		OpeningHours: tags.OpeningHours,
		Services:     deriveServices(tags, open24h),
		Specialties:  splitSpecialties(tags.Speciality),
		Open24h:      open24h,
		Sector:       inferSector(tags.Operator),
		BedCount:     parseBedCount(tags.Beds),
		Coordinates:  &coords,
		LastUpdated:  now,
	}

	return provider
}

func buildAddress(tags RawTags) string {
	street := strings.TrimSpace(tags.AddrStreet)
	if street == "" {
		return ""
	}
	if number := strings.TrimSpace(tags.AddrNumber); number != "" {
		return number + " " + street
	}
	return street
}

func collectPhones(tags RawTags) []string {
	var phones []string
	for _, raw := range []string{tags.Phone, tags.ContactPhone} {
		for _, part := range strings.Split(raw, ";") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				phones = append(phones, trimmed)
			}
		}
	}
	return phones
}

func deriveServices(tags RawTags, open24h bool) []string {
	var services []string
	if open24h {
		services = append(services, "Urgences")
	}
	if tags.Dispensing == "yes" {
		services = append(services, "Délivrance de médicaments")
	}
	return services
}

func splitSpecialties(raw string) []string {
	if raw == "" {
		return nil
	}
	var specialties []string
	for _, part := range strings.Split(raw, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			specialties = append(specialties, trimmed)
		}
	}
	return specialties
}

func inferSector(operator string) string {
	lowered := strings.ToLower(operator)
	for _, marker := range publicOperatorMarkers {
		if strings.Contains(lowered, marker) {
			return entities.SectorPublic
		}
	}
	return entities.SectorPrivate
}

func parseBedCount(raw string) *int {
	if raw == "" {
		return nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return nil
	}
	return &count
}
