package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/santegabon/carto-backend/internal/application/services"
	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

const defaultListLimit = 50

// ProviderHandler handles provider-related HTTP requests
type ProviderHandler struct {
	queryService   *services.QueryService
	suggestService *services.SuggestService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(queryService *services.QueryService, suggestService *services.SuggestService) *ProviderHandler {
	return &ProviderHandler{
		queryService:   queryService,
		suggestService: suggestService,
	}
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.queryService.GetByID(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.ProviderFilter{
		Type:     entities.ProviderType(query.Get("type")),
		Province: query.Get("province"),
		City:     query.Get("city"),
		NameLike: query.Get("name"),
		Limit:    intParam(query.Get("limit"), defaultListLimit),
		Offset:   intParam(query.Get("offset"), 0),
	}
	if v := query.Get("cnamgs"); v != "" {
		cnamgs := v == "true"
		filter.CNAMGS = &cnamgs
	}

	providers, err := h.queryService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// SearchProviders handles GET /api/providers/search
func (h *ProviderHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	spec := filterSpecFromQuery(r)

	providers, err := h.queryService.Search(r.Context(), spec)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// GetStats handles GET /api/providers/stats
func (h *ProviderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queryService.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// SuggestProviders handles GET /api/providers/suggest
func (h *ProviderHandler) SuggestProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	var userLocation *entities.Coordinates
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr == nil && lngErr == nil {
		userLocation = &entities.Coordinates{Lat: lat, Lng: lng}
	}

	suggestions, err := h.suggestService.Suggest(r.Context(), query, userLocation)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, suggestions)
}

func filterSpecFromQuery(r *http.Request) entities.FilterSpec {
	query := r.URL.Query()

	spec := entities.FilterSpec{
		Specialties: listParam(query.Get("specialties")),
		Services:    listParam(query.Get("services")),
		Equipment:   listParam(query.Get("equipment")),
		OpenNow:     query.Get("open_now") == "true",
		Open24h:     query.Get("open_24h") == "true",
		CNAMGS:      query.Get("cnamgs") == "true",
		CNSS:        query.Get("cnss") == "true",
		Urgent:      query.Get("urgent") == "true",
		SearchText:  query.Get("q"),
		Province:    query.Get("province"),
		Cities:      listParam(query.Get("cities")),
		SortBy:      entities.SortKey(query.Get("sort_by")),
	}

	for _, t := range listParam(query.Get("types")) {
		spec.Types = append(spec.Types, entities.ProviderType(t))
	}

	if v, err := strconv.ParseFloat(query.Get("max_distance_km"), 64); err == nil {
		spec.MaxDistanceKm = &v
	}
	if v, err := strconv.ParseFloat(query.Get("min_rating"), 64); err == nil {
		spec.MinRating = &v
	}

	return spec
}

func listParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps typed application errors to HTTP statuses
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeUnauthenticated:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeForbidden:
			respondWithError(w, http.StatusForbidden, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
