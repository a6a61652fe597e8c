package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/degyhq/degy/internal/httpserver/deps"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	Destinations *int   `json:"destinations,omitempty"`
	Users        *int   `json:"users,omitempty"`
	Bookmarks    *int   `json:"bookmarks,omitempty"`
	Bookings     *int   `json:"bookings,omitempty"`
	LastReload   string `json:"last_reload,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Impact       string `json:"impact,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destinations := d.Catalog.Count()
		lastReload := d.Catalog.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		users := d.Sessions.RegisteredUsers()
		bookmarks := d.Bookmarks.Count()
		bookings := d.Bookings.Count()

		components := map[string]componentStatus{
			"catalog": {
				OK:           destinations > 0,
				Destinations: &destinations,
				LastReload:   lastReloadStr,
			},
			"storage": checkStorage(d),
			"stores": {
				OK:        true,
				Users:     &users,
				Bookmarks: &bookmarks,
				Bookings:  &bookings,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical" // Nothing to browse or book
	}

	if storage, exists := components["storage"]; exists && !storage.OK {
		return "degraded" // State no longer survives a restart
	}

	return "nominal"
}

func checkStorage(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "memory",
			Impact: "state-lost-on-restart",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "writes-not-persisted",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "redis",
		Impact: "none",
	}
}
