package geo

// Province codes for Gabon's nine administrative provinces
const (
	ProvinceEstuaire     = "G1"
	ProvinceHautOgooue   = "G2"
	ProvinceMoyenOgooue  = "G3"
	ProvinceNgounie      = "G4"
	ProvinceNyanga       = "G5"
	ProvinceOgooueIvindo = "G6"
	ProvinceOgooueLolo   = "G7"
	ProvinceOgooueMarit  = "G8"
	ProvinceWoleuNtem    = "G9"
	DefaultProvince      = ProvinceEstuaire
)

// National bounding box. Records outside it are discarded at normalization time.
const (
	NationalMinLat = -4.0
	NationalMaxLat = 2.35
	NationalMinLng = 8.5
	NationalMaxLng = 14.55
)

// BoundingBox is a rectangular lat/lng region
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Contains reports whether the point lies inside the box (inclusive)
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

type provinceBox struct {
	code string
	box  BoundingBox
}

// provinceBoxes is checked in declaration order; the first matching box wins.
// The rectangles are a coarse approximation of the real province outlines and
// several of them overlap near shared borders, so classification close to a
// boundary depends on this order. Do not reorder without checking the tests.
var provinceBoxes = []provinceBox{
	{ProvinceEstuaire, BoundingBox{MinLat: -0.2, MaxLat: 1.2, MinLng: 9.0, MaxLng: 10.5}},
	{ProvinceOgooueMarit, BoundingBox{MinLat: -3.0, MaxLat: 0.0, MinLng: 8.5, MaxLng: 10.0}},
	{ProvinceMoyenOgooue, BoundingBox{MinLat: -1.5, MaxLat: 0.2, MinLng: 9.8, MaxLng: 11.0}},
	{ProvinceWoleuNtem, BoundingBox{MinLat: 0.9, MaxLat: 2.35, MinLng: 10.0, MaxLng: 14.0}},
	{ProvinceOgooueIvindo, BoundingBox{MinLat: -0.5, MaxLat: 1.0, MinLng: 11.8, MaxLng: 14.55}},
	{ProvinceHautOgooue, BoundingBox{MinLat: -2.5, MaxLat: -0.5, MinLng: 12.7, MaxLng: 14.55}},
	{ProvinceOgooueLolo, BoundingBox{MinLat: -2.0, MaxLat: -0.5, MinLng: 11.5, MaxLng: 13.0}},
	{ProvinceNgounie, BoundingBox{MinLat: -2.6, MaxLat: -0.8, MinLng: 10.0, MaxLng: 12.0}},
	{ProvinceNyanga, BoundingBox{MinLat: -4.0, MaxLat: -2.3, MinLng: 10.0, MaxLng: 12.0}},
}

// defaultCities maps each province to its capital, used when the source
// provides no city tag.
var defaultCities = map[string]string{
	ProvinceEstuaire:     "Libreville",
	ProvinceHautOgooue:   "Franceville",
	ProvinceMoyenOgooue:  "Lambaréné",
	ProvinceNgounie:      "Mouila",
	ProvinceNyanga:       "Tchibanga",
	ProvinceOgooueIvindo: "Makokou",
	ProvinceOgooueLolo:   "Koulamoutou",
	ProvinceOgooueMarit:  "Port-Gentil",
	ProvinceWoleuNtem:    "Oyem",
}

// ClassifyProvince maps a coordinate pair to a province code. The function is
// total: points matching no box get DefaultProvince, never an error.
func ClassifyProvince(lat, lng float64) string {
	for _, p := range provinceBoxes {
		if p.box.Contains(lat, lng) {
			return p.code
		}
	}
	return DefaultProvince
}

// DefaultCity returns the capital of a province, falling back to Libreville
func DefaultCity(province string) string {
	if city, ok := defaultCities[province]; ok {
		return city
	}
	return defaultCities[DefaultProvince]
}

// InNationalBounds reports whether the point lies inside Gabon's bounding box
func InNationalBounds(lat, lng float64) bool {
	return BoundingBox{
		MinLat: NationalMinLat, MaxLat: NationalMaxLat,
		MinLng: NationalMinLng, MaxLng: NationalMaxLng,
	}.Contains(lat, lng)
}
