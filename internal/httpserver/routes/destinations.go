package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/httpserver/handlers"
)

func init() { Register(registerDestinations) }

func registerDestinations(r chi.Router, d deps.Deps) {
	r.Route("/api/destinations", func(r chi.Router) {
		r.Get("/", handlers.ListDestinations(d))
		r.Get("/{id}", handlers.GetDestination(d))
	})
}
