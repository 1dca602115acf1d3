package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProvince(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     string
	}{
		{"libreville", 0.39, 9.45, ProvinceEstuaire},
		{"port gentil", -0.72, 8.78, ProvinceOgooueMarit},
		{"lambarene", -0.70, 10.24, ProvinceMoyenOgooue},
		{"oyem", 1.60, 11.58, ProvinceWoleuNtem},
		{"makokou", 0.57, 12.86, ProvinceOgooueIvindo},
		{"franceville", -1.63, 13.58, ProvinceHautOgooue},
		{"koulamoutou", -1.13, 12.46, ProvinceOgooueLolo},
		{"mouila", -1.87, 11.05, ProvinceNgounie},
		{"tchibanga", -2.93, 10.98, ProvinceNyanga},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProvince(tt.lat, tt.lng))
		})
	}
}

func TestClassifyProvince_DefaultWhenNoBoxMatches(t *testing.T) {
	// Atlantic, well outside every province rectangle
	assert.Equal(t, DefaultProvince, ClassifyProvince(5.0, 0.0))
}

func TestClassifyProvince_OverlapResolvedByCheckOrder(t *testing.T) {
	// (-2.5, 11.0) is inside both the Ngounié and Nyanga rectangles.
	// Ngounié is checked first, so it wins.
	assert.Equal(t, ProvinceNgounie, ClassifyProvince(-2.5, 11.0))
}

func TestInNationalBounds(t *testing.T) {
	assert.True(t, InNationalBounds(0.39, 9.45))
	assert.False(t, InNationalBounds(10.0, 9.45))
	assert.False(t, InNationalBounds(0.39, 20.0))
}

func TestDefaultCity(t *testing.T) {
	assert.Equal(t, "Libreville", DefaultCity(ProvinceEstuaire))
	assert.Equal(t, "Port-Gentil", DefaultCity(ProvinceOgooueMarit))
	assert.Equal(t, "Libreville", DefaultCity("unknown"))
}

func TestDistanceKm(t *testing.T) {
	// Libreville to Port-Gentil is roughly 145 km as the crow flies
	d := DistanceKm(0.39, 9.45, -0.72, 8.78)
	assert.InDelta(t, 145, d, 15)

	assert.Zero(t, DistanceKm(0.39, 9.45, 0.39, 9.45))
}
