package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentwheels/rentwheels-backend/api/responses"
	"github.com/rentwheels/rentwheels-backend/api/validators"
	"github.com/rentwheels/rentwheels-backend/internal/bookings"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	pkgerrors "github.com/rentwheels/rentwheels-backend/pkg/errors"
	"github.com/rentwheels/rentwheels-backend/pkg/logger"
)

type bookingCreateRequest struct {
	VehicleID     string  `json:"vehicle_id" validate:"required"`
	CustomerID    *string `json:"customer_id,omitempty"`
	RentStartDate string  `json:"rent_start_date" validate:"required"`
	RentEndDate   string  `json:"rent_end_date" validate:"required"`
}

type bookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BookingCreate reserves a vehicle for the caller, or for a named customer
// when the caller is an admin.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bookingCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicleID, err := uuid.Parse(strings.TrimSpace(payload.VehicleID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		input := bookings.CreateInput{
			Actor:         bookings.Actor{ID: actorID, Role: role},
			VehicleID:     vehicleID,
			RentStartDate: payload.RentStartDate,
			RentEndDate:   payload.RentEndDate,
		}
		if payload.CustomerID != nil {
			customerID, err := uuid.Parse(strings.TrimSpace(*payload.CustomerID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}
			input.CustomerID = &customerID
		}

		detail, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// BookingList returns all bookings for admins, own bookings for customers.
func BookingList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), bookings.Actor{ID: actorID, Role: role})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// BookingUpdateStatus applies a cancel or return transition.
func BookingUpdateStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawID := strings.TrimSpace(chi.URLParam(r, "bookingId"))
		if rawID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required"))
			return
		}
		bookingID, err := uuid.Parse(rawID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		var payload bookingStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseBookingStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		detail, err := svc.UpdateStatus(r.Context(), bookings.UpdateStatusInput{
			Actor:     bookings.Actor{ID: actorID, Role: role},
			BookingID: bookingID,
			Status:    status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
