package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentwheels/rentwheels-backend/pkg/db/models"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:bookings_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func newEngine(t *testing.T, db *gorm.DB, now time.Time) Service {
	t.Helper()
	return &service{
		repo: NewRepository(db),
		tx:   gormTxRunner{db: db},
		now:  func() time.Time { return now },
	}
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Casey Muir",
		Email:        "casey@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return user
}

func seedVehicle(t *testing.T, db *gorm.DB, price string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		ID:                 uuid.New(),
		VehicleName:        "Toyota Corolla",
		Category:           enums.VehicleCategoryCar,
		RegistrationNumber: "REG-" + uuid.NewString()[:8],
		DailyRentPrice:     decimal.RequireFromString(price),
		AvailabilityStatus: enums.VehicleAvailable,
	}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return vehicle
}

func TestCreateBookingDerivesPriceAndClaimsVehicle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "50.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-01",
		RentEndDate:   "2024-01-04",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if !detail.TotalPrice.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected total 150.00, got %s", detail.TotalPrice)
	}
	if detail.Status != enums.BookingStatusActive {
		t.Fatalf("expected active booking, got %s", detail.Status)
	}
	if detail.VehicleName != vehicle.VehicleName {
		t.Fatalf("expected vehicle fields on detail, got %+v", detail)
	}

	var stored models.Vehicle
	if err := db.First(&stored, "id = ?", vehicle.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if stored.AvailabilityStatus != enums.VehicleBooked {
		t.Fatalf("expected vehicle booked, got %s", stored.AvailabilityStatus)
	}
}

func TestCreateBookingConflictOnBookedVehicle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "40.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC))

	input := CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-02-01",
		RentEndDate:   "2024-02-03",
	}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Booking{}).Where("vehicle_id = ?", vehicle.ID).Count(&count).Error; err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one booking, got %d", count)
	}
}

func TestCreateBookingVehicleNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	svc := newEngine(t, db, time.Now().UTC())

	_, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     uuid.New(),
		RentStartDate: "2024-01-01",
		RentEndDate:   "2024-01-02",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelOwnBookingBeforeStartFreesVehicle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "60.00")
	svc := newEngine(t, db, time.Date(2023, 12, 15, 9, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-12",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusCancelled,
	})
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if updated.Status != enums.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}

	var stored models.Vehicle
	if err := db.First(&stored, "id = ?", vehicle.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if stored.AvailabilityStatus != enums.VehicleAvailable {
		t.Fatalf("expected vehicle freed, got %s", stored.AvailabilityStatus)
	}
}

func TestCancelAfterRentStartBlockedForCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "60.00")

	createSvc := newEngine(t, db, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	detail, err := createSvc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-12",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	lateSvc := newEngine(t, db, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	_, err = lateSvc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusCancelled,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	var stored models.Booking
	if err := db.First(&stored, "id = ?", detail.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if stored.Status != enums.BookingStatusActive {
		t.Fatalf("expected booking untouched, got %s", stored.Status)
	}
}

func TestCancelForeignBookingForbidden(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "30.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-11",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusCancelled,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestReturnRequiresAdminAndFreesVehicle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "45.00")
	svc := newEngine(t, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-12",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusReturned,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for customer return, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleAdmin},
		BookingID: detail.ID,
		Status:    enums.BookingStatusReturned,
	})
	if err != nil {
		t.Fatalf("admin return: %v", err)
	}
	if updated.Status != enums.BookingStatusReturned {
		t.Fatalf("expected returned, got %s", updated.Status)
	}

	var stored models.Vehicle
	if err := db.First(&stored, "id = ?", vehicle.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if stored.AvailabilityStatus != enums.VehicleAvailable {
		t.Fatalf("expected vehicle freed, got %s", stored.AvailabilityStatus)
	}
}

func TestTerminalStateProtection(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "45.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-12",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	actor := Actor{ID: customer.ID, Role: enums.UserRoleCustomer}
	if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{Actor: actor, BookingID: detail.ID, Status: enums.BookingStatusCancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Re-applying the same terminal status is a no-op.
	again, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{Actor: actor, BookingID: detail.ID, Status: enums.BookingStatusCancelled})
	if err != nil {
		t.Fatalf("idempotent cancel: %v", err)
	}
	if again.Status != enums.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", again.Status)
	}

	// Crossing terminal states is rejected.
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleAdmin},
		BookingID: detail.ID,
		Status:    enums.BookingStatusReturned,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// A stale terminal transition must not free a vehicle someone else booked.
	other := seedCustomer2(t, db)
	if _, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: other.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-02-01",
		RentEndDate:   "2024-02-03",
	}); err != nil {
		t.Fatalf("rebook vehicle: %v", err)
	}
	var stored models.Vehicle
	if err := db.First(&stored, "id = ?", vehicle.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if stored.AvailabilityStatus != enums.VehicleBooked {
		t.Fatalf("expected vehicle booked by second customer, got %s", stored.AvailabilityStatus)
	}
}

func TestNoOpCancelOnForeignBookingForbidden(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "35.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

	owner := Actor{ID: customer.ID, Role: enums.UserRoleCustomer}
	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         owner,
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-11",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{Actor: owner, BookingID: detail.ID, Status: enums.BookingStatusCancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Re-applying the current status must not bypass ownership checks.
	stranger := seedCustomer2(t, db)
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: stranger.ID, Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusCancelled,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestNoOpReturnStillRequiresAdmin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	customer := seedCustomer(t, db)
	vehicle := seedVehicle(t, db, "35.00")
	svc := newEngine(t, db, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	detail, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicle.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-12",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleAdmin},
		BookingID: detail.ID,
		Status:    enums.BookingStatusReturned,
	}); err != nil {
		t.Fatalf("admin return: %v", err)
	}

	// Even the booking's owner cannot re-apply a return.
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		Actor:     Actor{ID: customer.ID, Role: enums.UserRoleCustomer},
		BookingID: detail.ID,
		Status:    enums.BookingStatusReturned,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func seedCustomer2(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Riley Chen",
		Email:        "riley@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return user
}

func TestListScopesByRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	first := seedCustomer(t, db)
	second := seedCustomer2(t, db)
	vehicleA := seedVehicle(t, db, "20.00")
	vehicleB := seedVehicle(t, db, "30.00")
	svc := newEngine(t, db, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

	if _, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: first.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicleA.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-11",
	}); err != nil {
		t.Fatalf("create first booking: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{
		Actor:         Actor{ID: second.ID, Role: enums.UserRoleCustomer},
		VehicleID:     vehicleB.ID,
		RentStartDate: "2024-01-10",
		RentEndDate:   "2024-01-11",
	}); err != nil {
		t.Fatalf("create second booking: %v", err)
	}

	mine, err := svc.List(context.Background(), Actor{ID: first.ID, Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(mine) != 1 || mine[0].CustomerID != first.ID {
		t.Fatalf("expected only own booking, got %+v", mine)
	}
	if mine[0].CustomerName != nil {
		t.Fatal("customer listing must not expose customer join fields")
	}

	all, err := svc.List(context.Background(), Actor{ID: uuid.New(), Role: enums.UserRoleAdmin})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both bookings, got %d", len(all))
	}
	if all[0].CustomerName == nil || all[0].CustomerEmail == nil {
		t.Fatal("admin listing should include customer fields")
	}
}
