package storage

import "strconv"

const (
	// KeyUsers holds the user registry: a JSON array of user records.
	KeyUsers = "degy_users"
	// KeyAuth holds the current session: a single JSON session record,
	// absent when nobody is logged in.
	KeyAuth = "degy_auth"
	// KeyBookmarks holds the saved-destination set: a JSON array of ints.
	KeyBookmarks = "degy_bookmarks"
	// KeyBookings holds accepted bookings: a JSON array of booking records.
	KeyBookings = "degy_bookings"
)

const (
	// KeyPrefixDestination is the prefix for mirrored catalog entries.
	KeyPrefixDestination = "degy:destination:"
	// KeyAllDestinations is the set of all mirrored destination IDs.
	KeyAllDestinations = "degy:destinations:all"
)

// DestinationKey returns the mirror key for a destination by ID.
func DestinationKey(id int) string {
	return KeyPrefixDestination + strconv.Itoa(id)
}
