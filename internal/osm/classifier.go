package osm

import (
	"strings"

	"github.com/santegabon/carto-backend/internal/domain/entities"
)

// ClassifyType assigns exactly one provider type to a tag set. The cascade is
// evaluated in a fixed priority order and the first true predicate wins, so a
// record matching several signals always gets the highest-priority one.
// Pure and total: unrecognized tag sets fall through to medical_office.
func ClassifyType(tags RawTags) entities.ProviderType {
	switch {
	case institutionSignal(tags):
		return entities.TypeInstitution
	case laboratorySignal(tags):
		return entities.TypeLaboratory
	case imagingSignal(tags):
		return entities.TypeImaging
	case hospitalTag(tags):
		return entities.TypeHospital
	case clinicTag(tags):
		return entities.TypeClinic
	case pharmacyTag(tags):
		return entities.TypePharmacy
	case dentistTag(tags):
		return entities.TypeDentalOffice
	default:
		return entities.TypeMedicalOffice
	}
}

// institutionSignal matches administrative health bodies rather than care sites
func institutionSignal(tags RawTags) bool {
	if tags.Office == "government" {
		return true
	}
	name := lowerName(tags)
	return strings.Contains(name, "cnamgs") ||
		strings.Contains(name, "cnss") ||
		strings.Contains(name, "ministère") ||
		strings.Contains(name, "ministere") ||
		strings.Contains(name, "direction régionale") ||
		strings.Contains(name, "direction regionale")
}

func laboratorySignal(tags RawTags) bool {
	if tags.Healthcare == "laboratory" {
		return true
	}
	name := lowerName(tags)
	return strings.Contains(name, "laboratoire") || strings.Contains(name, "labo ")
}

func imagingSignal(tags RawTags) bool {
	name := lowerName(tags)
	return strings.Contains(name, "imagerie") ||
		strings.Contains(name, "radiologie") ||
		strings.Contains(name, "scanner") ||
		strings.Contains(name, "irm")
}

func hospitalTag(tags RawTags) bool {
	return tags.Amenity == "hospital" || tags.Healthcare == "hospital"
}

func clinicTag(tags RawTags) bool {
	return tags.Amenity == "clinic" || tags.Healthcare == "clinic"
}

func pharmacyTag(tags RawTags) bool {
	return tags.Amenity == "pharmacy" || tags.Healthcare == "pharmacy" || tags.Dispensing == "yes"
}

func dentistTag(tags RawTags) bool {
	return tags.Amenity == "dentist" || tags.Healthcare == "dentist"
}

func lowerName(tags RawTags) string {
	return strings.ToLower(tags.Name)
}
