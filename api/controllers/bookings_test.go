package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentwheels/rentwheels-backend/api/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/bookings"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
)

type stubBookingService struct {
	detail    *bookings.BookingDetail
	list      []bookings.BookingDetail
	err       error
	lastInput bookings.CreateInput
}

func (s *stubBookingService) Create(_ context.Context, input bookings.CreateInput) (*bookings.BookingDetail, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubBookingService) List(_ context.Context, _ bookings.Actor) ([]bookings.BookingDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubBookingService) UpdateStatus(_ context.Context, _ bookings.UpdateStatusInput) (*bookings.BookingDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func authedRequest(method, target, body string, role enums.UserRole) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	return payload.Error.Code
}

func TestBookingCreateReturns201(t *testing.T) {
	vehicleID := uuid.New()
	svc := &stubBookingService{detail: &bookings.BookingDetail{ID: uuid.New(), VehicleID: vehicleID}}
	handler := BookingCreate(svc, nil)

	body := `{"vehicle_id":"` + vehicleID.String() + `","rent_start_date":"2024-01-01","rent_end_date":"2024-01-04"}`
	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/v1/bookings", body, enums.UserRoleCustomer))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.VehicleID != vehicleID {
		t.Fatalf("expected vehicle id forwarded, got %s", svc.lastInput.VehicleID)
	}
	if svc.lastInput.Actor.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer actor, got %s", svc.lastInput.Actor.Role)
	}
}

func TestBookingCreateRejectsBadVehicleID(t *testing.T) {
	svc := &stubBookingService{}
	handler := BookingCreate(svc, nil)

	body := `{"vehicle_id":"not-a-uuid","rent_start_date":"2024-01-01","rent_end_date":"2024-01-04"}`
	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/v1/bookings", body, enums.UserRoleCustomer))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION got %s", code)
	}
}

func TestBookingCreateRequiresActorContext(t *testing.T) {
	handler := BookingCreate(&stubBookingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestBookingUpdateStatusRejectsUnknownStatus(t *testing.T) {
	handler := BookingUpdateStatus(&stubBookingService{}, nil)

	req := authedRequest(http.MethodPut, "/api/v1/bookings/"+uuid.NewString()+"/status", `{"status":"parked"}`, enums.UserRoleAdmin)
	req = withURLParam(req, "bookingId", uuid.NewString())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestBookingListPropagatesServiceError(t *testing.T) {
	svc := &stubBookingService{err: pkgerrors.New(pkgerrors.CodeInternal, "boom")}
	handler := BookingList(svc, nil)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodGet, "/api/v1/bookings", "", enums.UserRoleAdmin))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
