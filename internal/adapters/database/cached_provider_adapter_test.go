package database

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	patterns []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return nil
}

func (c *memoryCache) deletedPatterns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.patterns...)
}

type storeStub struct {
	provider *entities.HealthProvider
	getCalls int
}

func (s *storeStub) GetByID(ctx context.Context, id string) (*entities.HealthProvider, error) {
	s.getCalls++
	if s.provider == nil || s.provider.ID != id {
		return nil, apperrors.NewNotFoundError("provider with id " + id + " not found")
	}
	return s.provider, nil
}

func (s *storeStub) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.HealthProvider, error) {
	if s.provider == nil {
		return nil, nil
	}
	return []*entities.HealthProvider{s.provider}, nil
}

func (s *storeStub) UpsertBatch(ctx context.Context, providers []*entities.HealthProvider) error {
	return nil
}

func sampleProvider() *entities.HealthProvider {
	return &entities.HealthProvider{
		ID:       "OSM_1",
		Type:     entities.TypeHospital,
		Name:     "CHU de Libreville",
		Province: "G1",
		City:     "Libreville",
	}
}

func TestCachedGetByID_HitSkipsStore(t *testing.T) {
	cache := newMemoryCache()
	store := &storeStub{provider: sampleProvider()}

	data, err := json.Marshal(store.provider)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), providerCacheKey("OSM_1"), data, providerByIDTTL))

	adapter := NewCachedProviderAdapter(store, cache)
	provider, err := adapter.GetByID(context.Background(), "OSM_1")

	require.NoError(t, err)
	assert.Equal(t, "CHU de Libreville", provider.Name)
	assert.Zero(t, store.getCalls)
}

func TestCachedGetByID_CorruptEntryFallsThroughToStore(t *testing.T) {
	cache := newMemoryCache()
	store := &storeStub{provider: sampleProvider()}

	require.NoError(t, cache.Set(context.Background(), providerCacheKey("OSM_1"), []byte("not json"), providerByIDTTL))

	adapter := NewCachedProviderAdapter(store, cache)
	provider, err := adapter.GetByID(context.Background(), "OSM_1")

	require.NoError(t, err)
	assert.Equal(t, "OSM_1", provider.ID)
	assert.Equal(t, 1, store.getCalls)
}

func TestCachedList_CorruptEntryFallsThroughToStore(t *testing.T) {
	cache := newMemoryCache()
	store := &storeStub{provider: sampleProvider()}

	filter := repositories.ProviderFilter{Province: "G1"}
	require.NoError(t, cache.Set(context.Background(), providerListCacheKey(filter), []byte("{broken"), providerListTTL))

	adapter := NewCachedProviderAdapter(store, cache)
	result, err := adapter.List(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "OSM_1", result[0].ID)
}

func TestCachedUpsertBatch_InvalidatesKeys(t *testing.T) {
	cache := newMemoryCache()
	store := &storeStub{}

	data, err := json.Marshal(sampleProvider())
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), providerCacheKey("OSM_1"), data, providerByIDTTL))

	adapter := NewCachedProviderAdapter(store, cache)
	require.NoError(t, adapter.UpsertBatch(context.Background(), []*entities.HealthProvider{sampleProvider()}))

	// Invalidation happens off the request path
	require.Eventually(t, func() bool {
		exists, err := cache.Exists(context.Background(), providerCacheKey("OSM_1"))
		return err == nil && !exists && len(cache.deletedPatterns()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"providers:list:*"}, cache.deletedPatterns())
}
