package entities

import (
	"time"
)

// ProviderType is the single category assigned to a health provider
type ProviderType string

const (
	TypeHospital      ProviderType = "hospital"
	TypeClinic        ProviderType = "clinic"
	TypePharmacy      ProviderType = "pharmacy"
	TypeDentalOffice  ProviderType = "dental_office"
	TypeMedicalOffice ProviderType = "medical_office"
	TypeLaboratory    ProviderType = "laboratory"
	TypeImaging       ProviderType = "imaging"
	TypeInstitution   ProviderType = "institution"
)

// Sector values inferred from the operator tag
const (
	SectorPublic  = "public"
	SectorPrivate = "private"
)

// HealthProvider represents one health-related establishment on the map
type HealthProvider struct {
	ID           string              `json:"id" db:"id"`
	SourceID     int64               `json:"source_id" db:"source_id"`
	Type         ProviderType        `json:"type" db:"type"`
	Name         string              `json:"name" db:"name"`
	Province     string              `json:"province" db:"province"`
	City         string              `json:"city" db:"city"`
	Address      string              `json:"address" db:"address"`
	Phones       []string            `json:"phones" db:"-"`
	Email        string              `json:"email" db:"email"`
	Website      string              `json:"website" db:"website"`
	OpeningHours string              `json:"opening_hours" db:"opening_hours"`
	Services     []string            `json:"services" db:"-"`
	Specialties  []string            `json:"specialties" db:"-"`
	Open24h      bool                `json:"open_24h" db:"open_24h"`
	Insurance    InsuranceAcceptance `json:"insurance" db:"-"`
	Sector       string              `json:"sector" db:"sector"`
	BedCount     *int                `json:"bed_count,omitempty" db:"bed_count"`
	Rating       float64             `json:"rating" db:"rating"`
	Coordinates  *Coordinates        `json:"coordinates,omitempty" db:"-"`
	// DistanceKm is filled in by a caller-supplied geolocation step, never persisted
	DistanceKm  *float64  `json:"distance_km,omitempty" db:"-"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Lat float64 `json:"lat" db:"latitude"`
	Lng float64 `json:"lng" db:"longitude"`
}

// InsuranceAcceptance tracks which national schemes a provider accepts.
// Always false at ingestion time; set later by administrative workflows.
type InsuranceAcceptance struct {
	CNAMGS bool `json:"cnamgs" db:"cnamgs"`
	CNSS   bool `json:"cnss" db:"cnss"`
}
