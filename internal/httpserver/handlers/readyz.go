package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/degyhq/degy/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready        bool `json:"ready"`
	Destinations int  `json:"destinations"`
}

// Readyz reports whether the instance can serve traffic: the destination
// catalog must have been loaded at least once (from file or mirror).
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.Catalog != nil && !d.Catalog.GetLastReload().IsZero()

		w.Header().Set("Content-Type", "application/json")
		if ready {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		count := 0
		if d.Catalog != nil {
			count = d.Catalog.Count()
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:        ready,
			Destinations: count,
		})
	}
}
