package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
)

// Repository defines persistence operations for the booking engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error)
	FindVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.User, error)
	ClaimVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	ReleaseVehicle(ctx context.Context, vehicleID uuid.UUID) error
	MarkStatus(ctx context.Context, bookingID uuid.UUID, from, to enums.BookingStatus) (bool, error)
}
