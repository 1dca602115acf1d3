package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	tsclient "github.com/santegabon/carto-backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.ProvidersCollection

// TypesenseAdapter implements provider search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderSearchRepository
var _ repositories.ProviderSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	// Create collection
	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "province", Type: "string", Facet: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "services", Type: "string[]"},
			{Name: "specialties", Type: "string[]"},
			{Name: "open_24h", Type: "bool"},
			{Name: "cnamgs", Type: "bool"},
			{Name: "rating", Type: "float"},
			{Name: "last_updated", Type: "int64"},
		},
		DefaultSortingField: pointer.String("last_updated"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index indexes a provider document
func (a *TypesenseAdapter) Index(ctx context.Context, provider *entities.HealthProvider) error {
	document := map[string]interface{}{
		"id":           provider.ID,
		"name":         provider.Name,
		"type":         string(provider.Type),
		"province":     provider.Province,
		"city":         provider.City,
		"services":     emptyIfNil(provider.Services),
		"specialties":  emptyIfNil(provider.Specialties),
		"open_24h":     provider.Open24h,
		"cnamgs":       provider.Insurance.CNAMGS,
		"rating":       provider.Rating,
		"last_updated": provider.LastUpdated.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index provider: %w", err)
	}

	return nil
}

// Delete removes a provider from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete provider from index: %w", err)
	}
	return nil
}

// Suggest returns providers whose indexed fields match the query text
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*entities.HealthProvider, error) {
	if limit <= 0 {
		limit = 5
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,city,services,specialties"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	matches := []*entities.HealthProvider{}
	if result.Hits == nil {
		return matches, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast safely
		provider := &entities.HealthProvider{}
		if val, ok := doc["id"].(string); ok {
			provider.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			provider.Name = val
		}
		if val, ok := doc["type"].(string); ok {
			provider.Type = entities.ProviderType(val)
		}
		if val, ok := doc["province"].(string); ok {
			provider.Province = val
		}
		if val, ok := doc["city"].(string); ok {
			provider.City = val
		}
		if val, ok := doc["open_24h"].(bool); ok {
			provider.Open24h = val
		}
		if val, ok := doc["cnamgs"].(bool); ok {
			provider.Insurance.CNAMGS = val
		}
		if val, ok := doc["rating"].(float64); ok {
			provider.Rating = val
		}
		provider.Services = stringSlice(doc["services"])
		provider.Specialties = stringSlice(doc["specialties"])

		matches = append(matches, provider)
	}

	return matches, nil
}

func stringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
