package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Put("/{id}", handlers.AddBookmark(d))
		r.Delete("/{id}", handlers.RemoveBookmark(d))
		r.Post("/{id}/toggle", handlers.ToggleBookmark(d))
	})
}
