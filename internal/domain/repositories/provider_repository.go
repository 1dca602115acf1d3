package repositories

import (
	"context"

	"github.com/santegabon/carto-backend/internal/domain/entities"
)

// ProviderRepository defines the interface for provider persistence
type ProviderRepository interface {
	// GetByID retrieves a provider by ID
	GetByID(ctx context.Context, id string) (*entities.HealthProvider, error)

	// List retrieves providers matching the filter
	List(ctx context.Context, filter ProviderFilter) ([]*entities.HealthProvider, error)

	// UpsertBatch inserts or overwrites providers keyed by id in one batch.
	// A failure aborts the whole batch; there is no per-record retry.
	UpsertBatch(ctx context.Context, providers []*entities.HealthProvider) error
}

// ProviderSearchRepository defines the search-index operations (e.g. Typesense)
type ProviderSearchRepository interface {
	// Index indexes a provider document
	Index(ctx context.Context, provider *entities.HealthProvider) error

	// Suggest returns providers whose indexed fields match the query text
	Suggest(ctx context.Context, query string, limit int) ([]*entities.HealthProvider, error)

	// Delete removes a provider from the index
	Delete(ctx context.Context, id string) error
}

// ProviderFilter defines equality/substring filters applied at the store level
type ProviderFilter struct {
	Type     entities.ProviderType
	Province string
	City     string
	NameLike string
	CNAMGS   *bool
	Limit    int
	Offset   int
}
