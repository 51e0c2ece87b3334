package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/internal/policy"
	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
	"github.com/rentwheels/rentwheels-backend/pkg/metrics"
)

const dateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the booking lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BookingDetail, error)
	List(ctx context.Context, actor Actor) ([]BookingDetail, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*BookingDetail, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

// NewService builds a booking service with the required dependencies. The
// metrics argument may be nil when no registry is wired.
func NewService(repo Repository, tx txRunner, bookingMetrics *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		metrics: bookingMetrics,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*BookingDetail, error) {
	started := s.now()
	defer func() {
		s.metrics.ObserveDuration("create", s.now().Sub(started))
	}()

	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}

	start, err := parseDate(input.RentStartDate, "rent_start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.RentEndDate, "rent_end_date")
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rent_end_date must be after rent_start_date")
	}

	customerID, err := effectiveCustomer(input)
	if err != nil {
		return nil, err
	}

	var booking *models.Booking
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.FindCustomer(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}

		vehicle, err := repo.FindVehicle(ctx, input.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}

		claimed, err := repo.ClaimVehicle(ctx, vehicle.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim vehicle")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeConflict, "vehicle is not available")
		}

		total := vehicle.DailyRentPrice.Mul(decimal.NewFromInt(rentalDays(start, end)))
		if !total.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeInternal, "computed total price is not positive")
		}

		booking, err = repo.Create(ctx, &models.Booking{
			CustomerID:    customer.ID,
			VehicleID:     vehicle.ID,
			RentStartDate: start,
			RentEndDate:   end,
			TotalPrice:    total,
			Status:        enums.BookingStatusActive,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert booking")
		}
		booking.Vehicle = vehicle
		booking.Customer = customer
		return nil
	})
	if txErr != nil {
		s.metrics.IncCreation(createOutcome(txErr))
		return nil, txErr
	}

	s.metrics.IncCreation("created")
	return detailFromModel(booking, input.Actor.Role == enums.UserRoleAdmin), nil
}

func (s *service) List(ctx context.Context, actor Actor) ([]BookingDetail, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		list []models.Booking
		err  error
	)
	admin := actor.Role == enums.UserRoleAdmin
	if admin {
		list, err = s.repo.ListAll(ctx)
	} else {
		list, err = s.repo.ListByCustomer(ctx, actor.ID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	out := make([]BookingDetail, 0, len(list))
	for i := range list {
		out = append(out, *detailFromModel(&list[i], admin))
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*BookingDetail, error) {
	started := s.now()
	defer func() {
		s.metrics.ObserveDuration("update_status", s.now().Sub(started))
	}()

	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if !input.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be cancelled or returned")
	}

	admin := input.Actor.Role == enums.UserRoleAdmin
	var (
		booking *models.Booking
		applied bool
	)
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		// Authorization runs before any state handling, including the
		// idempotent no-op path.
		switch input.Status {
		case enums.BookingStatusReturned:
			if !admin {
				return pkgerrors.New(pkgerrors.CodeForbidden, "returns require admin")
			}
		case enums.BookingStatusCancelled:
			if err := policy.Authorize(input.Actor.Role, input.Actor.ID, policy.ActionCancelBooking, current.CustomerID); err != nil {
				return err
			}
		}

		if current.Status == input.Status {
			// Idempotent re-application of a terminal state.
			booking = current
			return nil
		}
		if current.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("booking already %s", current.Status))
		}

		if input.Status == enums.BookingStatusCancelled && !admin && !s.now().UTC().Before(current.RentStartDate) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel after rent start")
		}

		changed, err := repo.MarkStatus(ctx, current.ID, enums.BookingStatusActive, input.Status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		if !changed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking state changed concurrently")
		}

		if err := repo.ReleaseVehicle(ctx, current.VehicleID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release vehicle")
		}

		current.Status = input.Status
		booking = current
		applied = true
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if applied {
		s.metrics.IncTransition(input.Status.String())
	}
	return detailFromModel(booking, admin), nil
}

func effectiveCustomer(input CreateInput) (uuid.UUID, error) {
	if input.Actor.Role == enums.UserRoleAdmin {
		if input.CustomerID == nil || *input.CustomerID == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id required for admin bookings")
		}
		return *input.CustomerID, nil
	}
	if input.CustomerID != nil && *input.CustomerID != input.Actor.ID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot book on behalf of another customer")
	}
	return input.Actor.ID, nil
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid %s, expected YYYY-MM-DD", field))
	}
	return parsed.UTC(), nil
}

// rentalDays charges any partial day in the range as a full day.
func rentalDays(start, end time.Time) int64 {
	const day = 24 * time.Hour
	span := end.Sub(start)
	days := int64(span / day)
	if span%day != 0 {
		days++
	}
	return days
}

func createOutcome(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeForbidden:
		return "rejected"
	default:
		return "error"
	}
}
