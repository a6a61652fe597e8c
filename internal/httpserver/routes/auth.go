package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", handlers.Signup(d))
		r.Post("/login", handlers.Login(d))
		r.Post("/logout", handlers.Logout(d))
		r.Get("/me", handlers.Me(d))
	})
}
