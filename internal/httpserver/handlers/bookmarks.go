package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/degyhq/degy/internal/httpserver/deps"
)

type bookmarksResponse struct {
	Bookmarks []int `json:"bookmarks"`
	Count     int   `json:"count"`
}

type toggleResponse struct {
	Bookmarked bool `json:"bookmarked"`
	Count      int  `json:"count"`
}

// ListBookmarks returns the saved-destination set in insertion order.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := d.Bookmarks.IDs()
		writeJSON(w, http.StatusOK, bookmarksResponse{
			Bookmarks: ids,
			Count:     len(ids),
		})
	}
}

// AddBookmark inserts a destination ID. Adding a present ID is a no-op.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}

		d.Bookmarks.Add(r.Context(), id)
		d.Metrics.RecordBookmarkOp("add")
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveBookmark deletes a destination ID. Removing an absent ID is a no-op.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}

		d.Bookmarks.Remove(r.Context(), id)
		d.Metrics.RecordBookmarkOp("remove")
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleBookmark flips membership and reports the new state.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookmarkID(w, r)
		if !ok {
			return
		}

		bookmarked := d.Bookmarks.Toggle(r.Context(), id)
		d.Metrics.RecordBookmarkOp("toggle")
		writeJSON(w, http.StatusOK, toggleResponse{
			Bookmarked: bookmarked,
			Count:      d.Bookmarks.Count(),
		})
	}
}

// bookmarkID parses the {id} route parameter; on failure it writes a 400
// and returns false.
func bookmarkID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid destination id")
		return 0, false
	}
	return id, true
}
