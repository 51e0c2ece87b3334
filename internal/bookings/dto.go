package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
)

// Actor identifies the authenticated caller of a booking operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// CreateInput captures a booking request. Dates arrive as "2006-01-02" strings
// and are interpreted as calendar days at UTC midnight. CustomerID is required
// for admins booking on behalf of a customer and must be absent or self for
// everyone else.
type CreateInput struct {
	Actor         Actor
	VehicleID     uuid.UUID
	CustomerID    *uuid.UUID
	RentStartDate string
	RentEndDate   string
}

// UpdateStatusInput carries a requested lifecycle transition.
type UpdateStatusInput struct {
	Actor     Actor
	BookingID uuid.UUID
	Status    enums.BookingStatus
}

// BookingDetail is the transport shape joining booking, vehicle, and customer
// display fields. Customer fields are populated only for admin listings.
type BookingDetail struct {
	ID                 uuid.UUID           `json:"id"`
	CustomerID         uuid.UUID           `json:"customer_id"`
	CustomerName       *string             `json:"customer_name,omitempty"`
	CustomerEmail      *string             `json:"customer_email,omitempty"`
	VehicleID          uuid.UUID           `json:"vehicle_id"`
	VehicleName        string              `json:"vehicle_name"`
	RegistrationNumber string              `json:"registration_number"`
	Category           string              `json:"category"`
	RentStartDate      time.Time           `json:"rent_start_date"`
	RentEndDate        time.Time           `json:"rent_end_date"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	Status             enums.BookingStatus `json:"status"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func detailFromModel(b *models.Booking, includeCustomer bool) *BookingDetail {
	if b == nil {
		return nil
	}

	detail := &BookingDetail{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		RentStartDate: b.RentStartDate,
		RentEndDate:   b.RentEndDate,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Vehicle != nil {
		detail.VehicleName = b.Vehicle.VehicleName
		detail.RegistrationNumber = b.Vehicle.RegistrationNumber
		detail.Category = b.Vehicle.Category.String()
	}
	if includeCustomer && b.Customer != nil {
		detail.CustomerName = &b.Customer.Name
		detail.CustomerEmail = &b.Customer.Email
	}
	return detail
}
