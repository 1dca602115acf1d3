package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/internal/application/services"
	"github.com/santegabon/carto-backend/internal/osm"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

type stubFetcher struct {
	elements []osm.RawElement
	err      error
}

func (f *stubFetcher) FetchHealthSites(ctx context.Context) ([]osm.RawElement, error) {
	return f.elements, f.err
}

type stubRoleRepo struct {
	admins map[string]bool
}

func (r *stubRoleRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	return r.admins[userID], nil
}

func coord(v float64) *float64 { return &v }

func newSyncHandler(fetcher *stubFetcher, admins map[string]bool) *SyncHandler {
	svc := services.NewSyncService(
		fetcher,
		&stubProviderRepo{},
		&stubRoleRepo{admins: admins},
		nil,
		nil,
		nil,
	)
	return NewSyncHandler(svc)
}

func syncElements() []osm.RawElement {
	return []osm.RawElement{
		{
			Type: "node",
			ID:   42,
			Lat:  coord(0.39),
			Lon:  coord(9.45),
			Tags: osm.RawTags{Amenity: "pharmacy", Name: "Pharmacie Centrale"},
		},
	}
}

func TestTriggerSync_WithoutPersistence(t *testing.T) {
	handler := newSyncHandler(&stubFetcher{elements: syncElements()}, nil)

	body := strings.NewReader(`{"save_to_database": false}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", body)
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	assert.NotEmpty(t, result.RunID)
}

func TestTriggerSync_MissingActorIsUnauthorized(t *testing.T) {
	handler := newSyncHandler(&stubFetcher{elements: syncElements()}, nil)

	body := strings.NewReader(`{"save_to_database": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", body)
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTriggerSync_NonAdminIsForbidden(t *testing.T) {
	handler := newSyncHandler(&stubFetcher{elements: syncElements()}, map[string]bool{})

	body := strings.NewReader(`{"save_to_database": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", body)
	req.Header.Set(ActorHeader, "user-1")
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTriggerSync_AdminPersists(t *testing.T) {
	handler := newSyncHandler(&stubFetcher{elements: syncElements()}, map[string]bool{"admin-1": true})

	body := strings.NewReader(`{"save_to_database": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", body)
	req.Header.Set(ActorHeader, "admin-1")
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestTriggerSync_FetchFailureIsBadGateway(t *testing.T) {
	fetchErr := apperrors.NewExternalError("all overpass mirrors failed", nil)
	handler := newSyncHandler(&stubFetcher{err: fetchErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTriggerSync_BadBody(t *testing.T) {
	handler := newSyncHandler(&stubFetcher{elements: syncElements()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cartography/sync", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	handler.TriggerSync(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
