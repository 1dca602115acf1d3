package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/providers"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/overpass"
	"github.com/santegabon/carto-backend/internal/infrastructure/observability"
	"github.com/santegabon/carto-backend/internal/osm"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

// SyncRequest describes one cartography sync pass
type SyncRequest struct {
	Province       string `json:"province,omitempty"`
	City           string `json:"city,omitempty"`
	SaveToDatabase bool   `json:"save_to_database"`
	ActorID        string `json:"-"`
}

// SyncResult is the single outcome surfaced to the caller
type SyncResult struct {
	Success   bool                       `json:"success"`
	RunID     string                     `json:"run_id"`
	Count     int                        `json:"count"`
	Providers []*entities.HealthProvider `json:"providers,omitempty"`
	Dropped   osm.DropStats              `json:"dropped"`
	Error     string                     `json:"error,omitempty"`
}

// SyncService orchestrates fetch, normalization and persistence of the
// provider set
type SyncService struct {
	fetcher    overpass.Client
	repo       repositories.ProviderRepository
	roles      repositories.RoleRepository
	searchRepo repositories.ProviderSearchRepository
	eventBus   providers.EventBus
	metrics    *observability.Metrics
}

// NewSyncService creates a new sync service
func NewSyncService(
	fetcher overpass.Client,
	repo repositories.ProviderRepository,
	roles repositories.RoleRepository,
	searchRepo repositories.ProviderSearchRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *SyncService {
	return &SyncService{
		fetcher:    fetcher,
		repo:       repo,
		roles:      roles,
		searchRepo: searchRepo,
		eventBus:   eventBus,
		metrics:    metrics,
	}
}

// Sync runs one pass: fetch, normalize, optionally persist. Per-record
// normalization problems never fail the pass; fetch and persistence
// failures abort it entirely.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	ctx, span := observability.StartSpan(ctx, "SyncService.Sync")
	defer span.End()

	runID := uuid.New().String()
	logger := observability.LoggerFromContext(ctx)

	// The write precondition is checked before any fetch or write happens
	if req.SaveToDatabase {
		if err := s.authorize(ctx, req.ActorID); err != nil {
			observability.RecordError(span, err)
			return failedResult(runID, err), err
		}
	}

	elements, err := s.fetcher.FetchHealthSites(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return failedResult(runID, err), err
	}

	records, dropped := osm.Normalize(elements, time.Now())
	records = filterByArea(records, req.Province, req.City)

	logger.Info().
		Str("run_id", runID).
		Int("fetched", len(elements)).
		Int("kept", len(records)).
		Int("dropped_missing_coords", dropped.MissingCoords).
		Int("dropped_out_of_bounds", dropped.OutOfBounds).
		Msg("normalized provider set")

	if req.SaveToDatabase {
		if err := s.repo.UpsertBatch(ctx, records); err != nil {
			observability.RecordError(span, err)
			return failedResult(runID, err), err
		}
		s.indexAll(ctx, records)
		s.publishCompleted(ctx, runID, req, len(records))
	}

	if s.metrics != nil {
		observability.RecordSyncRun(ctx, s.metrics, req.Province, len(records), dropped.MissingCoords+dropped.OutOfBounds)
	}

	return &SyncResult{
		Success:   true,
		RunID:     runID,
		Count:     len(records),
		Providers: records,
		Dropped:   dropped,
	}, nil
}

func (s *SyncService) authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperrors.NewUnauthenticatedError("no actor identity on sync request")
	}

	isAdmin, err := s.roles.HasRole(ctx, actorID, repositories.AdminRole)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperrors.NewForbiddenError("actor lacks the admin role required for persistence")
	}
	return nil
}

// indexAll mirrors the batch into the search index. Index failures are
// logged and do not fail the sync (eventual consistency).
func (s *SyncService) indexAll(ctx context.Context, records []*entities.HealthProvider) {
	if s.searchRepo == nil {
		return
	}
	for _, record := range records {
		if err := s.searchRepo.Index(ctx, record); err != nil {
			log.Printf("Warning: Failed to index provider %s: %v", record.ID, err)
		}
	}
}

func (s *SyncService) publishCompleted(ctx context.Context, runID string, req SyncRequest, count int) {
	if s.eventBus == nil {
		return
	}

	event := &entities.SyncEvent{
		ID:        uuid.New().String(),
		RunID:     runID,
		Type:      entities.EventSyncCompleted,
		Province:  req.Province,
		City:      req.City,
		Count:     count,
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish(ctx, entities.EventSyncCompleted, event); err != nil {
		log.Printf("Warning: Failed to publish sync event %s: %v", event.ID, err)
	}
}

func filterByArea(records []*entities.HealthProvider, province, city string) []*entities.HealthProvider {
	if province == "" && city == "" {
		return records
	}

	result := make([]*entities.HealthProvider, 0, len(records))
	for _, record := range records {
		if province != "" && record.Province != province {
			continue
		}
		if city != "" && !strings.EqualFold(record.City, city) {
			continue
		}
		result = append(result, record)
	}
	return result
}

func failedResult(runID string, err error) *SyncResult {
	return &SyncResult{
		Success: false,
		RunID:   runID,
		Error:   err.Error(),
	}
}
