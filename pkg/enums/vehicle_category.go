package enums

import "fmt"

// VehicleCategory classifies a vehicle in the rental catalog.
type VehicleCategory string

const (
	VehicleCategoryCar  VehicleCategory = "car"
	VehicleCategoryBike VehicleCategory = "bike"
	VehicleCategoryVan  VehicleCategory = "van"
	VehicleCategorySUV  VehicleCategory = "suv"
)

var validVehicleCategories = []VehicleCategory{
	VehicleCategoryCar,
	VehicleCategoryBike,
	VehicleCategoryVan,
	VehicleCategorySUV,
}

// String implements fmt.Stringer.
func (v VehicleCategory) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleCategory.
func (v VehicleCategory) IsValid() bool {
	for _, candidate := range validVehicleCategories {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleCategory converts raw input into a VehicleCategory.
func ParseVehicleCategory(value string) (VehicleCategory, error) {
	for _, candidate := range validVehicleCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle category %q", value)
}
