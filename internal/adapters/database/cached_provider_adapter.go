package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/providers"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
)

// CachedProviderAdapter wraps ProviderAdapter with caching
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	providerByIDTTL = 300 // 5 minutes for single provider
	providerListTTL = 180 // 3 minutes for lists
)

func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providerListCacheKey(filter repositories.ProviderFilter) string {
	cnamgs := "any"
	if filter.CNAMGS != nil {
		cnamgs = fmt.Sprintf("%t", *filter.CNAMGS)
	}
	return fmt.Sprintf("providers:list:%s:%s:%s:%s:%s:%d:%d",
		filter.Type, filter.Province, filter.City, filter.NameLike, cnamgs,
		filter.Limit, filter.Offset)
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.HealthProvider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.HealthProvider
		unmarshalErr := json.Unmarshal(cached, &provider)
		if unmarshalErr == nil {
			return &provider, nil
		}
		// Corrupt cache entries fall through to the store
		log.Printf("Failed to unmarshal cached provider %s: %v", id, unmarshalErr)
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provider); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerByIDTTL); err != nil {
				log.Printf("Failed to cache provider %s: %v", id, err)
			}
		}
	}()

	return provider, nil
}

// List retrieves providers matching the filter with caching
func (a *CachedProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.HealthProvider, error) {
	cacheKey := providerListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var result []*entities.HealthProvider
		unmarshalErr := json.Unmarshal(cached, &result)
		if unmarshalErr == nil {
			return result, nil
		}
		log.Printf("Failed to unmarshal cached provider list: %v", unmarshalErr)
	}

	result, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(result); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerListTTL); err != nil {
				log.Printf("Failed to cache provider list: %v", err)
			}
		}
	}()

	return result, nil
}

// UpsertBatch writes the batch through and invalidates related caches
func (a *CachedProviderAdapter) UpsertBatch(ctx context.Context, batch []*entities.HealthProvider) error {
	if err := a.adapter.UpsertBatch(ctx, batch); err != nil {
		return err
	}

	// Invalidate caches asynchronously
	go func() {
		bgCtx := context.Background()
		for _, provider := range batch {
			if err := a.cache.Delete(bgCtx, providerCacheKey(provider.ID)); err != nil {
				log.Printf("Failed to invalidate provider cache %s: %v", provider.ID, err)
			}
		}
		if err := a.cache.DeletePattern(bgCtx, "providers:list:*"); err != nil {
			log.Printf("Failed to invalidate provider list cache: %v", err)
		}
	}()

	return nil
}
