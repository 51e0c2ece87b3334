package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/enums"
)

// Booking represents a reservation of one vehicle for a date range.
//
// TotalPrice is derived by the booking engine and never client-supplied.
// Status is mutated only through the engine's transition rules; rows are
// never physically deleted.
type Booking struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	VehicleID     uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null"`
	RentStartDate time.Time           `gorm:"column:rent_start_date;not null"`
	RentEndDate   time.Time           `gorm:"column:rent_end_date;not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status        enums.BookingStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Customer      *User               `gorm:"foreignKey:CustomerID"`
	Vehicle       *Vehicle            `gorm:"foreignKey:VehicleID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the UUID client-side so inserts behave the same across drivers.
func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
