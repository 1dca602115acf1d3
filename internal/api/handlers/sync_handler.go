package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/santegabon/carto-backend/internal/application/services"
)

// ActorHeader carries the backend-verified caller identity
const ActorHeader = "X-Actor-ID"

// SyncHandler handles cartography sync requests
type SyncHandler struct {
	syncService *services.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

type syncRequestBody struct {
	Province       string `json:"province,omitempty"`
	City           string `json:"city,omitempty"`
	SaveToDatabase bool   `json:"save_to_database"`
}

// TriggerSync handles POST /api/cartography/sync
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var body syncRequestBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	req := services.SyncRequest{
		Province:       body.Province,
		City:           body.City,
		SaveToDatabase: body.SaveToDatabase,
		ActorID:        r.Header.Get(ActorHeader),
	}

	result, err := h.syncService.Sync(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
