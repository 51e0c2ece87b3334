package enums

import "fmt"

// VehicleAvailability is the single-holder lock gating new bookings on a vehicle.
type VehicleAvailability string

const (
	VehicleAvailable VehicleAvailability = "available"
	VehicleBooked    VehicleAvailability = "booked"
)

var validVehicleAvailabilities = []VehicleAvailability{
	VehicleAvailable,
	VehicleBooked,
}

// String implements fmt.Stringer.
func (v VehicleAvailability) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleAvailability.
func (v VehicleAvailability) IsValid() bool {
	for _, candidate := range validVehicleAvailabilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleAvailability converts raw input into a VehicleAvailability.
func ParseVehicleAvailability(value string) (VehicleAvailability, error) {
	for _, candidate := range validVehicleAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle availability %q", value)
}
