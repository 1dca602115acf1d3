package osm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santegabon/carto-backend/internal/domain/entities"
	"github.com/santegabon/carto-backend/internal/geo"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalize_PharmacyNode(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	elements := []RawElement{
		{
			Type: "node",
			ID:   42,
			Lat:  floatPtr(0.39),
			Lon:  floatPtr(9.45),
			Tags: RawTags{
				Amenity:  "pharmacy",
				Name:     "Pharmacie Centrale",
				AddrCity: "Libreville",
			},
		},
	}

	providers, stats := Normalize(elements, now)
	require.Len(t, providers, 1)
	assert.Zero(t, stats.MissingCoords)
	assert.Zero(t, stats.OutOfBounds)

	p := providers[0]
	assert.Equal(t, "OSM_42", p.ID)
	assert.Equal(t, int64(42), p.SourceID)
	assert.Equal(t, entities.TypePharmacy, p.Type)
	assert.Equal(t, "Pharmacie Centrale", p.Name)
	assert.Equal(t, "Libreville", p.City)
	assert.Equal(t, geo.ProvinceEstuaire, p.Province)
	require.NotNil(t, p.Coordinates)
	assert.Equal(t, 0.39, p.Coordinates.Lat)
	assert.Equal(t, 9.45, p.Coordinates.Lng)
	assert.False(t, p.Open24h)
	assert.False(t, p.Insurance.CNAMGS)
	assert.False(t, p.Insurance.CNSS)
	assert.Equal(t, now, p.LastUpdated)
}

func TestNormalize_DropsOutOfBounds(t *testing.T) {
	elements := []RawElement{
		{Type: "node", ID: 42, Lat: floatPtr(10.0), Lon: floatPtr(9.45), Tags: RawTags{Amenity: "pharmacy"}},
	}

	providers, stats := Normalize(elements, time.Now())
	assert.Empty(t, providers)
	assert.Equal(t, 1, stats.OutOfBounds)
	assert.Zero(t, stats.MissingCoords)
}

func TestNormalize_DropsMissingCoordinates(t *testing.T) {
	elements := []RawElement{
		{Type: "way", ID: 7, Tags: RawTags{Amenity: "hospital"}},
	}

	providers, stats := Normalize(elements, time.Now())
	assert.Empty(t, providers)
	assert.Equal(t, 1, stats.MissingCoords)
}

func TestNormalize_WayUsesCenter(t *testing.T) {
	elements := []RawElement{
		{
			Type:   "way",
			ID:     100,
			Center: &Center{Lat: -0.72, Lon: 8.78},
			Tags:   RawTags{Amenity: "hospital", Name: "Hôpital de Port-Gentil"},
		},
	}

	providers, _ := Normalize(elements, time.Now())
	require.Len(t, providers, 1)
	assert.Equal(t, geo.ProvinceOgooueMarit, providers[0].Province)
	// no addr:city tag, so the province capital fills in
	assert.Equal(t, "Port-Gentil", providers[0].City)
}

func TestNormalize_IdempotentIDs(t *testing.T) {
	elements := []RawElement{
		{Type: "node", ID: 42, Lat: floatPtr(0.39), Lon: floatPtr(9.45), Tags: RawTags{Amenity: "pharmacy"}},
	}

	first, _ := Normalize(elements, time.Now())
	second, _ := Normalize(elements, time.Now())
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestNormalize_EmergencyMeansOpen24h(t *testing.T) {
	elements := []RawElement{
		{
			Type: "node", ID: 9, Lat: floatPtr(0.40), Lon: floatPtr(9.46),
			Tags: RawTags{Amenity: "hospital", Emergency: "yes"},
		},
	}

	providers, _ := Normalize(elements, time.Now())
	require.Len(t, providers, 1)
	assert.True(t, providers[0].Open24h)
	assert.Contains(t, providers[0].Services, "Urgences")
	assert.Equal(t, PlaceholderName, providers[0].Name)
}

func TestNormalize_DescriptiveFields(t *testing.T) {
	beds := "120"
	elements := []RawElement{
		{
			Type: "node", ID: 11, Lat: floatPtr(0.41), Lon: floatPtr(9.47),
			Tags: RawTags{
				Amenity:      "hospital",
				Name:         "Hôpital d'Instruction des Armées",
				Operator:     "Ministère de la Défense",
				Phone:        "+241 01 44 55 66; +241 01 44 55 67",
				Website:      "https://hia.ga",
				OpeningHours: "Mo-Su 00:00-24:00",
				Speciality:   "cardiology;paediatrics",
				Beds:         beds,
				AddrStreet:   "Boulevard Omar Bongo",
				AddrNumber:   "12",
			},
		},
	}

	providers, _ := Normalize(elements, time.Now())
	require.Len(t, providers, 1)
	p := providers[0]
	assert.Equal(t, entities.SectorPublic, p.Sector)
	assert.Equal(t, []string{"+241 01 44 55 66", "+241 01 44 55 67"}, p.Phones)
	assert.Equal(t, []string{"cardiology", "paediatrics"}, p.Specialties)
	require.NotNil(t, p.BedCount)
	assert.Equal(t, 120, *p.BedCount)
	assert.Equal(t, "12 Boulevard Omar Bongo", p.Address)
}

func TestInferSector(t *testing.T) {
	assert.Equal(t, entities.SectorPublic, inferSector("Ministère de la Santé"))
	assert.Equal(t, entities.SectorPrivate, inferSector("Groupe Medicare SARL"))
	assert.Equal(t, entities.SectorPrivate, inferSector(""))
}
