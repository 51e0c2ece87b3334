package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/enums"
)

// Vehicle represents a rentable unit in the fleet catalog.
//
// AvailabilityStatus is the only field the booking engine mutates; it acts as
// the per-vehicle lock that keeps at most one booking active at a time.
type Vehicle struct {
	ID                 uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	VehicleName        string                    `gorm:"column:vehicle_name;not null"`
	Category           enums.VehicleCategory     `gorm:"column:category;type:text;not null"`
	RegistrationNumber string                    `gorm:"column:registration_number;not null;uniqueIndex:idx_vehicles_registration_number"`
	DailyRentPrice     decimal.Decimal           `gorm:"column:daily_rent_price;type:numeric(12,2);not null"`
	AvailabilityStatus enums.VehicleAvailability `gorm:"column:availability_status;type:text;not null;default:'available'"`
	CreatedAt          time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the UUID client-side so inserts behave the same across drivers.
func (v *Vehicle) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
