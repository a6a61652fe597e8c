package domain

// Destination represents one bookable trip from the catalog.
//
// It is NOT tied to the YAML source file, Redis or the HTTP layer.
// All inputs (catalog file, redis mirror) are merged into this structure.
//
// A Destination is uniquely identified by its numeric ID.
type Destination struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical catalog identifier. Bookmarks reference it.
	ID int `json:"id"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	// Name is the display name of the trip.
	// Example: "Giza Pyramids"
	Name string `json:"name"`

	// Location is the city or region the trip visits.
	// Example: "Giza"
	Location string `json:"location"`

	// Image is the URL of the cover photo.
	Image string `json:"image"`

	// Price is the display price string as authored in the catalog.
	// Example: "$15k"
	Price string `json:"price"`

	// Duration is the display trip length.
	// Example: "28 Days Trip"
	Duration string `json:"duration"`

	// Description is the marketing blurb shown on the detail page.
	Description string `json:"description"`

	// ─────────────────────────────
	// Social proof
	// ─────────────────────────────

	// Rating is the average traveller rating, 0.0 to 5.0.
	Rating float64 `json:"rating"`

	// Reviews is the number of reviews behind Rating.
	Reviews int `json:"reviews"`
}

// Comment is a traveller comment shown on destination detail pages.
type Comment struct {
	ID       int    `json:"id"`
	User     string `json:"user"`
	Avatar   string `json:"avatar"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Verified bool   `json:"verified"`
}
