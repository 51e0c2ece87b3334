package vehicles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
)

// VehicleDTO is the transport shape for catalog entries.
type VehicleDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	VehicleName        string                    `json:"vehicle_name"`
	Category           enums.VehicleCategory     `json:"category"`
	RegistrationNumber string                    `json:"registration_number"`
	DailyRentPrice     decimal.Decimal           `json:"daily_rent_price"`
	AvailabilityStatus enums.VehicleAvailability `json:"availability_status"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// CreateVehicleInput holds the fields required to register a vehicle.
type CreateVehicleInput struct {
	VehicleName        string
	Category           enums.VehicleCategory
	RegistrationNumber string
	DailyRentPrice     decimal.Decimal
}

// UpdateVehicleInput captures the mutable catalog fields. Availability is owned
// by the booking engine and deliberately absent here.
type UpdateVehicleInput struct {
	VehicleName    *string
	Category       *enums.VehicleCategory
	DailyRentPrice *decimal.Decimal
}

// ListFilters narrows the catalog listing. Limit of zero means no cap.
type ListFilters struct {
	Availability *enums.VehicleAvailability
	Category     *enums.VehicleCategory
	Limit        int
}

func FromModel(v *models.Vehicle) *VehicleDTO {
	if v == nil {
		return nil
	}

	return &VehicleDTO{
		ID:                 v.ID,
		VehicleName:        v.VehicleName,
		Category:           v.Category,
		RegistrationNumber: v.RegistrationNumber,
		DailyRentPrice:     v.DailyRentPrice,
		AvailabilityStatus: v.AvailabilityStatus,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
