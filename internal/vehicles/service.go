package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/db"
	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
)

type vehiclesRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, filters ListFilters) ([]models.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveBookings(ctx context.Context, id uuid.UUID) (int64, error)
	CountBookings(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service exposes vehicle catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	List(ctx context.Context, filters ListFilters) ([]VehicleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo vehiclesRepository
}

// NewService builds a vehicles service with the provided repository.
func NewService(repo vehiclesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error) {
	name := strings.TrimSpace(input.VehicleName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle name required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle category")
	}
	registration := strings.ToUpper(strings.TrimSpace(input.RegistrationNumber))
	if registration == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration number required")
	}
	if !input.DailyRentPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily rent price must be positive")
	}

	vehicle, err := s.repo.Create(ctx, &models.Vehicle{
		VehicleName:        name,
		Category:           input.Category,
		RegistrationNumber: registration,
		DailyRentPrice:     input.DailyRentPrice,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_vehicles_registration_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "registration number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]VehicleDTO, error) {
	if filters.Availability != nil && !filters.Availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability filter")
	}
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
	}

	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	out := make([]VehicleDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}

	updates := map[string]any{}
	if input.VehicleName != nil {
		name := strings.TrimSpace(*input.VehicleName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle name cannot be empty")
		}
		updates["vehicle_name"] = name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle category")
		}
		updates["category"] = *input.Category
	}
	if input.DailyRentPrice != nil {
		if !input.DailyRentPrice.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily rent price must be positive")
		}
		updates["daily_rent_price"] = *input.DailyRentPrice
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
		}
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	active, err := s.repo.CountActiveBookings(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active bookings")
	}
	if active > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vehicle has an active booking")
	}

	// Terminal bookings stay on file as rental history, so a vehicle that was
	// ever booked cannot be removed.
	total, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}
	if total > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "vehicle has booking history")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "vehicle has booking history")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}
