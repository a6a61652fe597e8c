package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/httpserver/handlers"
)

func init() { Register(registerBookings) }

func registerBookings(r chi.Router, d deps.Deps) {
	r.Post("/api/bookings", handlers.CreateBooking(d))
}
