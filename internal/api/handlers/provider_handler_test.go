package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/internal/application/services"
	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

type stubProviderRepo struct {
	providers []*entities.HealthProvider
}

func (r *stubProviderRepo) GetByID(ctx context.Context, id string) (*entities.HealthProvider, error) {
	for _, p := range r.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("provider with id " + id + " not found")
}

func (r *stubProviderRepo) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.HealthProvider, error) {
	return r.providers, nil
}

func (r *stubProviderRepo) UpsertBatch(ctx context.Context, providers []*entities.HealthProvider) error {
	return nil
}

func testRecords() []*entities.HealthProvider {
	return []*entities.HealthProvider{
		{
			ID:       "OSM_1",
			Type:     entities.TypeHospital,
			Name:     "CHU de Libreville",
			Province: "G1",
			City:     "Libreville",
			Open24h:  true,
		},
		{
			ID:       "OSM_2",
			Type:     entities.TypePharmacy,
			Name:     "Pharmacie Centrale",
			Province: "G1",
			City:     "Owendo",
		},
	}
}

func newProviderHandler(records []*entities.HealthProvider) *ProviderHandler {
	repo := &stubProviderRepo{providers: records}
	return NewProviderHandler(
		services.NewQueryService(repo),
		services.NewSuggestService(repo, nil),
	)
}

func TestGetProvider_Found(t *testing.T) {
	handler := newProviderHandler(testRecords())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/providers/{id}", handler.GetProvider)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/OSM_1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var provider entities.HealthProvider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &provider))
	assert.Equal(t, "CHU de Libreville", provider.Name)
}

func TestGetProvider_NotFound(t *testing.T) {
	handler := newProviderHandler(testRecords())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/providers/{id}", handler.GetProvider)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/OSM_999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProviders(t *testing.T) {
	handler := newProviderHandler(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	rec := httptest.NewRecorder()
	handler.ListProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Count)
}

func TestSearchProviders_CityFilter(t *testing.T) {
	handler := newProviderHandler(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/providers/search?cities=Owendo&q=CHU", nil)
	rec := httptest.NewRecorder()
	handler.SearchProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Providers []*entities.HealthProvider `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	// The explicit city list overrides the free-text query
	require.Len(t, payload.Providers, 1)
	assert.Equal(t, "OSM_2", payload.Providers[0].ID)
}

func TestGetStats(t *testing.T) {
	handler := newProviderHandler(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/providers/stats", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats entities.ProviderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Open24h)
}

func TestSuggestProviders_RequiresQuery(t *testing.T) {
	handler := newProviderHandler(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/providers/suggest", nil)
	rec := httptest.NewRecorder()
	handler.SuggestProviders(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestProviders_ReturnsScoredMatches(t *testing.T) {
	handler := newProviderHandler(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/providers/suggest?q=pharmacie", nil)
	rec := httptest.NewRecorder()
	handler.SuggestProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var suggestions entities.Suggestions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestions))
	require.NotEmpty(t, suggestions.Providers)
	assert.Equal(t, "OSM_2", suggestions.Providers[0].Provider.ID)
}
