package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

const providersTable = "providers"

var providerColumns = []interface{}{
	"id", "source_id", "type", "name", "province", "city", "address",
	"phones", "email", "website", "opening_hours", "services", "specialties",
	"open_24h", "cnamgs", "cnss", "sector", "bed_count", "rating",
	"latitude", "longitude", "last_updated",
}

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.HealthProvider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From(providersTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	return provider, nil
}

// List retrieves providers matching the filter
func (a *ProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.HealthProvider, error) {
	ds := a.db.Select(providerColumns...).From(providersTable)

	if filter.Type != "" {
		ds = ds.Where(goqu.Ex{"type": string(filter.Type)})
	}
	if filter.Province != "" {
		ds = ds.Where(goqu.Ex{"province": filter.Province})
	}
	if filter.City != "" {
		ds = ds.Where(goqu.Ex{"city": filter.City})
	}
	if filter.NameLike != "" {
		ds = ds.Where(goqu.C("name").ILike("%" + filter.NameLike + "%"))
	}
	if filter.CNAMGS != nil {
		ds = ds.Where(goqu.Ex{"cnamgs": *filter.CNAMGS})
	}

	ds = ds.Order(goqu.C("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	result := []*entities.HealthProvider{}
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		result = append(result, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating providers", err)
	}

	return result, nil
}

// UpsertBatch inserts or overwrites providers keyed by id in one statement.
// A failure aborts the whole batch.
func (a *ProviderAdapter) UpsertBatch(ctx context.Context, providers []*entities.HealthProvider) error {
	if len(providers) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(providers))
	for _, p := range providers {
		records = append(records, providerRecord(p))
	}

	query, args, err := a.db.Insert(providersTable).
		Rows(records...).
		OnConflict(goqu.DoUpdate("id", excludedRecord())).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert providers", err)
	}

	return nil
}

func providerRecord(p *entities.HealthProvider) goqu.Record {
	record := goqu.Record{
		"id":            p.ID,
		"source_id":     p.SourceID,
		"type":          string(p.Type),
		"name":          p.Name,
		"province":      p.Province,
		"city":          p.City,
		"address":       sql.NullString{String: p.Address, Valid: p.Address != ""},
		"phones":        pq.Array(p.Phones),
		"email":         sql.NullString{String: p.Email, Valid: p.Email != ""},
		"website":       sql.NullString{String: p.Website, Valid: p.Website != ""},
		"opening_hours": sql.NullString{String: p.OpeningHours, Valid: p.OpeningHours != ""},
		"services":      pq.Array(p.Services),
		"specialties":   pq.Array(p.Specialties),
		"open_24h":      p.Open24h,
		"cnamgs":        p.Insurance.CNAMGS,
		"cnss":          p.Insurance.CNSS,
		"sector":        p.Sector,
		"rating":        p.Rating,
		"last_updated":  p.LastUpdated,
	}

	if p.BedCount != nil {
		record["bed_count"] = *p.BedCount
	} else {
		record["bed_count"] = nil
	}

	if p.Coordinates != nil {
		record["latitude"] = p.Coordinates.Lat
		record["longitude"] = p.Coordinates.Lng
	} else {
		record["latitude"] = nil
		record["longitude"] = nil
	}

	return record
}

func excludedRecord() goqu.Record {
	record := goqu.Record{}
	for _, col := range providerColumns {
		name := col.(string)
		if name == "id" {
			continue
		}
		record[name] = goqu.L("EXCLUDED." + name)
	}
	return record
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.HealthProvider, error) {
	provider := &entities.HealthProvider{}
	var (
		providerType        string
		address             sql.NullString
		email               sql.NullString
		website             sql.NullString
		openingHours        sql.NullString
		phones              pq.StringArray
		services            pq.StringArray
		specialties         pq.StringArray
		bedCount            sql.NullInt64
		latitude, longitude sql.NullFloat64
	)

	err := row.Scan(
		&provider.ID,
		&provider.SourceID,
		&providerType,
		&provider.Name,
		&provider.Province,
		&provider.City,
		&address,
		&phones,
		&email,
		&website,
		&openingHours,
		&services,
		&specialties,
		&provider.Open24h,
		&provider.Insurance.CNAMGS,
		&provider.Insurance.CNSS,
		&provider.Sector,
		&bedCount,
		&provider.Rating,
		&latitude,
		&longitude,
		&provider.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	provider.Type = entities.ProviderType(providerType)
	provider.Address = address.String
	provider.Email = email.String
	provider.Website = website.String
	provider.OpeningHours = openingHours.String
	provider.Phones = []string(phones)
	provider.Services = []string(services)
	provider.Specialties = []string(specialties)

	if bedCount.Valid {
		beds := int(bedCount.Int64)
		provider.BedCount = &beds
	}
	if latitude.Valid && longitude.Valid {
		provider.Coordinates = &entities.Coordinates{
			Lat: latitude.Float64,
			Lng: longitude.Float64,
		}
	}

	return provider, nil
}
