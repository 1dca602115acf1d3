package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/internal/domain/entities"
)

func TestSuggestFrom_UrgenceRanksOpen24hHigher(t *testing.T) {
	open := &entities.HealthProvider{
		ID:      "OSM_10",
		Name:    "Centre Médical du Port",
		Open24h: true,
	}
	closed := &entities.HealthProvider{
		ID:   "OSM_11",
		Name: "Centre Médical du Port",
	}

	result := SuggestFrom("urgence", []*entities.HealthProvider{closed, open}, nil)

	require.NotEmpty(t, result.Providers)
	assert.Equal(t, "OSM_10", result.Providers[0].Provider.ID)
	if len(result.Providers) > 1 {
		assert.Greater(t, result.Providers[0].Score, result.Providers[1].Score)
	}
}

func TestSuggestFrom_ExactNameBeatsSubstring(t *testing.T) {
	exact := &entities.HealthProvider{ID: "OSM_20", Name: "Pharmacie Centrale"}
	partial := &entities.HealthProvider{ID: "OSM_21", Name: "Pharmacie Centrale d'Owendo"}

	result := SuggestFrom("pharmacie centrale", []*entities.HealthProvider{partial, exact}, nil)

	require.Len(t, result.Providers, 2)
	assert.Equal(t, "OSM_20", result.Providers[0].Provider.ID)
	assert.Equal(t, float64(10), result.Providers[0].Score)
	assert.Equal(t, float64(5), result.Providers[1].Score)
}

func TestSuggestFrom_TopFiveOnly(t *testing.T) {
	records := make([]*entities.HealthProvider, 0, 8)
	for i := 0; i < 8; i++ {
		records = append(records, &entities.HealthProvider{
			ID:   string(rune('a' + i)),
			Name: "Clinique des Palmiers",
		})
	}

	result := SuggestFrom("clinique", records, nil)

	assert.Len(t, result.Providers, 5)
}

func TestSuggestFrom_NearbyByDistance(t *testing.T) {
	libreville := &entities.Coordinates{Lat: 0.3924, Lng: 9.4536}

	records := []*entities.HealthProvider{
		{ID: "far", Coordinates: &entities.Coordinates{Lat: -1.63, Lng: 13.58}},   // Franceville
		{ID: "near", Coordinates: &entities.Coordinates{Lat: 0.41, Lng: 9.47}},    // Libreville area
		{ID: "mid", Coordinates: &entities.Coordinates{Lat: -0.72, Lng: 8.78}},    // Port-Gentil
		{ID: "nocoords"},
		{ID: "also-near", Coordinates: &entities.Coordinates{Lat: 0.39, Lng: 9.45}},
	}

	result := SuggestFrom("x", records, libreville)

	require.Len(t, result.Nearby, 3)
	assert.Equal(t, "also-near", result.Nearby[0].ID)
	assert.Equal(t, "near", result.Nearby[1].ID)
	assert.Equal(t, "mid", result.Nearby[2].ID)
}

func TestSuggestFrom_CommonServicesVocabulary(t *testing.T) {
	result := SuggestFrom("vaccin", nil, nil)

	assert.Contains(t, result.Services, "Vaccination")
}

func TestSuggestFrom_EmptyQueryScoresNothing(t *testing.T) {
	records := []*entities.HealthProvider{
		{ID: "OSM_30", Name: "Hôpital Régional"},
	}

	result := SuggestFrom("", records, nil)

	assert.Empty(t, result.Providers)
	assert.Empty(t, result.Services)
}
