package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/logger"
)

type bookingRequest struct {
	DestinationID int    `json:"destinationId"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Date          string `json:"date"` // "2006-01-02" or RFC 3339
	PaymentMethod string `json:"paymentMethod"`
}

type bookingResponse struct {
	Booking domain.Booking `json:"booking"`
}

type bookingValidationResponse struct {
	Errors map[string]string `json:"errors"`
}

// CreateBooking validates the booking form and persists a confirmed
// booking.
func CreateBooking(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		in := booking.Input{
			DestinationID: req.DestinationID,
			Name:          req.Name,
			Phone:         req.Phone,
			Address:       req.Address,
			TravelDate:    parseTravelDate(req.Date),
			PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		}

		start := time.Now()
		b, err := d.Bookings.Create(r.Context(), in)
		if err != nil {
			var verr *booking.ValidationError
			switch {
			case errors.As(err, &verr):
				writeJSON(w, http.StatusUnprocessableEntity, bookingValidationResponse{Errors: verr.Fields})
			case errors.Is(err, booking.ErrUnknownDestination):
				writeError(w, http.StatusNotFound, "destination not found")
			default:
				d.Logger.Error("booking failed", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "booking failed")
			}
			return
		}

		d.Metrics.RecordBooking(time.Since(start))
		writeJSON(w, http.StatusCreated, bookingResponse{Booking: b})
	}
}

// parseTravelDate accepts a plain date or an RFC 3339 timestamp. A zero
// time is returned on failure; validation rejects it as not in the future.
func parseTravelDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
