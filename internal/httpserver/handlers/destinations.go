package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/logger"
)

type destinationsResponse struct {
	Count        int                   `json:"count"`
	Query        string                `json:"query,omitempty"`
	Destinations []*domain.Destination `json:"destinations"`
}

type destinationDetailResponse struct {
	Destination *domain.Destination `json:"destination"`
	Comments    []*domain.Comment   `json:"comments"`
}

// ListDestinations returns the catalog, filtered and ranked by the q
// parameter. An empty query returns everything in catalog order.
func ListDestinations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		dests := d.Catalog.Search(query)
		if query != "" {
			d.Logger.Debug("destination search",
				logger.String("query", query),
				logger.Int("results", len(dests)))
		}

		writeJSON(w, http.StatusOK, destinationsResponse{
			Count:        len(dests),
			Query:        query,
			Destinations: dests,
		})
	}
}

// GetDestination returns one destination with its traveller comments.
func GetDestination(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid destination id")
			return
		}

		dest, ok := d.Catalog.GetDestination(id)
		if !ok {
			writeError(w, http.StatusNotFound, "destination not found")
			return
		}

		writeJSON(w, http.StatusOK, destinationDetailResponse{
			Destination: dest,
			Comments:    d.Catalog.GetAllComments(),
		})
	}
}
