package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
)

type stubVehiclesRepo struct {
	vehicle   *models.Vehicle
	list      []models.Vehicle
	findErr   error
	createErr error
	created   *models.Vehicle
	updated   map[string]any
	deleted   bool
	deleteErr error
	active    int64
	total     int64
}

func (s *stubVehiclesRepo) Create(_ context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	vehicle.ID = uuid.New()
	s.created = vehicle
	return vehicle, nil
}

func (s *stubVehiclesRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Vehicle, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.vehicle, nil
}

func (s *stubVehiclesRepo) List(_ context.Context, _ ListFilters) ([]models.Vehicle, error) {
	return s.list, nil
}

func (s *stubVehiclesRepo) Update(_ context.Context, _ uuid.UUID, updates map[string]any) error {
	s.updated = updates
	return nil
}

func (s *stubVehiclesRepo) Delete(_ context.Context, _ uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = true
	return nil
}

func (s *stubVehiclesRepo) CountActiveBookings(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.active, nil
}

func (s *stubVehiclesRepo) CountBookings(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.total, nil
}

func baseVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:                 uuid.New(),
		VehicleName:        "Toyota Corolla",
		Category:           enums.VehicleCategoryCar,
		RegistrationNumber: "KA-01-7777",
		DailyRentPrice:     decimal.RequireFromString("50.00"),
		AvailabilityStatus: enums.VehicleAvailable,
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceCreateNormalizesRegistration(t *testing.T) {
	repo := &stubVehiclesRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateVehicleInput{
		VehicleName:        "Honda CB500",
		Category:           enums.VehicleCategoryBike,
		RegistrationNumber: " ka-05-1234 ",
		DailyRentPrice:     decimal.RequireFromString("25.50"),
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	if dto.RegistrationNumber != "KA-05-1234" {
		t.Fatalf("expected normalized registration, got %q", dto.RegistrationNumber)
	}
	if repo.created.AvailabilityStatus != "" && repo.created.AvailabilityStatus != enums.VehicleAvailable {
		t.Fatalf("unexpected availability %q", repo.created.AvailabilityStatus)
	}
}

func TestServiceCreateRejectsNonPositivePrice(t *testing.T) {
	svc, _ := NewService(&stubVehiclesRepo{})

	_, err := svc.Create(context.Background(), CreateVehicleInput{
		VehicleName:        "Honda CB500",
		Category:           enums.VehicleCategoryBike,
		RegistrationNumber: "KA-05-1234",
		DailyRentPrice:     decimal.Zero,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateDuplicateRegistration(t *testing.T) {
	repo := &stubVehiclesRepo{createErr: errDuplicateRegistration{}}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), CreateVehicleInput{
		VehicleName:        "Honda CB500",
		Category:           enums.VehicleCategoryBike,
		RegistrationNumber: "KA-05-1234",
		DailyRentPrice:     decimal.RequireFromString("25.50"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type errDuplicateRegistration struct{}

func (errDuplicateRegistration) Error() string {
	return `duplicate key value violates unique constraint "idx_vehicles_registration_number"`
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := NewService(&stubVehiclesRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateExcludesAvailability(t *testing.T) {
	vehicle := baseVehicle()
	repo := &stubVehiclesRepo{vehicle: vehicle}
	svc, _ := NewService(repo)

	name := "Toyota Corolla LE"
	price := decimal.RequireFromString("55.00")
	_, err := svc.Update(context.Background(), vehicle.ID, UpdateVehicleInput{VehicleName: &name, DailyRentPrice: &price})
	if err != nil {
		t.Fatalf("update vehicle: %v", err)
	}
	if _, ok := repo.updated["availability_status"]; ok {
		t.Fatal("availability must not be updatable through the catalog")
	}
	if repo.updated["vehicle_name"] != "Toyota Corolla LE" {
		t.Fatalf("expected name update, got %v", repo.updated)
	}
}

func TestServiceDeleteBlockedByActiveBooking(t *testing.T) {
	vehicle := baseVehicle()
	repo := &stubVehiclesRepo{vehicle: vehicle, active: 1}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), vehicle.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.deleted {
		t.Fatal("expected delete to be skipped")
	}
}

func TestServiceDeleteBlockedByBookingHistory(t *testing.T) {
	vehicle := baseVehicle()
	repo := &stubVehiclesRepo{vehicle: vehicle, total: 2}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), vehicle.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if typed.Message() != "vehicle has booking history" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if repo.deleted {
		t.Fatal("expected delete to be skipped")
	}
}

func TestServiceDeleteMapsForeignKeyToConflict(t *testing.T) {
	vehicle := baseVehicle()
	repo := &stubVehiclesRepo{vehicle: vehicle, deleteErr: errBookingsReference{}}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), vehicle.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type errBookingsReference struct{}

func (errBookingsReference) Error() string {
	return `update or delete on table "vehicles" violates foreign key constraint "bookings_vehicle_id_fkey" on table "bookings"`
}

func TestServiceListInvalidFilter(t *testing.T) {
	svc, _ := NewService(&stubVehiclesRepo{})

	bad := enums.VehicleAvailability("parked")
	_, err := svc.List(context.Background(), ListFilters{Availability: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
