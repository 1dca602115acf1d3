package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/pkg/config"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

func newTestClient(mirrors ...string) *HTTPClient {
	return NewClient(&config.OverpassConfig{
		Mirrors:        mirrors,
		AttemptTimeout: 2 * time.Second,
	})
}

func TestFetchHealthSites_FirstMirrorWins(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"elements":[{"type":"node","id":42,"lat":0.39,"lon":9.45,"tags":{"amenity":"pharmacy","name":"Pharmacie Centrale"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	elements, err := client.FetchHealthSites(context.Background())

	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, int64(42), elements[0].ID)
	assert.Equal(t, "pharmacy", elements[0].Tags.Amenity)
	assert.Equal(t, 1, calls)
}

func TestFetchHealthSites_FallsBackToNextMirror(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"type":"node","id":7,"lat":0.4,"lon":9.4,"tags":{}}]}`))
	}))
	defer working.Close()

	client := newTestClient(failing.URL, working.URL)
	elements, err := client.FetchHealthSites(context.Background())

	require.NoError(t, err)
	assert.Len(t, elements, 1)
}

func TestFetchHealthSites_AllMirrorsFail(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer second.Close()

	client := newTestClient(first.URL, second.URL)
	_, err := client.FetchHealthSites(context.Background())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
	// the accumulated message names both mirrors
	assert.Contains(t, appErr.Message, first.URL)
	assert.Contains(t, appErr.Message, second.URL)
}

func TestFetchHealthSites_NoMirrorsConfigured(t *testing.T) {
	client := newTestClient()
	_, err := client.FetchHealthSites(context.Background())

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestFetchHealthSites_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchHealthSites(context.Background())
	require.Error(t, err)
}
