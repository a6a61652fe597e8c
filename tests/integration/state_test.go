package integration

import (
	"context"
	"testing"
	"time"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/bookmarks"
	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/session"
	"github.com/degyhq/degy/internal/storage"
)

// TestVisitorJourney walks the whole visitor flow over one storage
// backend: signup, bookmarking, booking, logout, then a fresh set of
// stores over the same backend to prove the state survived.
func TestVisitorJourney(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	store := storage.NewMemoryStore()

	idx := index.NewMemoryIndex()
	idx.UpdateDestinations([]*domain.Destination{
		{ID: 1, Name: "Pyramids of Giza", Location: "Giza, Egypt", Rating: 4.9},
		{ID: 8, Name: "Siwa Oasis", Location: "Siwa, Egypt", Rating: 4.6},
	})

	sessions := session.New(ctx, store, log)
	marks := bookmarks.New(ctx, store, log)
	bookings := booking.NewService(ctx, store, idx, log, 0)

	// Signup establishes the session immediately.
	user, err := sessions.Signup(ctx, "Mona", "mona@example.com", "secret123", domain.AccountTourist)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Name != "Mona" || user.Type != domain.AccountTourist {
		t.Errorf("unexpected session user: %+v", user)
	}
	if !sessions.IsAuthenticated() {
		t.Error("expected authenticated session after signup")
	}

	// Bookmark two destinations, un-bookmark one.
	marks.Add(ctx, 8)
	marks.Add(ctx, 1)
	marks.Add(ctx, 8) // no-op
	marks.Remove(ctx, 8)
	if got := marks.IDs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected bookmarks [1], got %v", got)
	}

	// Book a trip.
	b, err := bookings.Create(ctx, booking.Input{
		DestinationID: 1,
		Name:          "Mona",
		Phone:         "01234567890",
		Address:       "12 Nile Corniche, Cairo",
		TravelDate:    time.Now().Add(72 * time.Hour),
		PaymentMethod: domain.PaymentInstaPay,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if b.Reference == "" || b.Status != domain.BookingConfirmed {
		t.Errorf("unexpected booking: %+v", b)
	}

	sessions.Logout(ctx)

	// Fresh stores over the same backend: registry, bookmarks and
	// bookings survive, the session does not.
	sessions2 := session.New(ctx, store, log)
	if sessions2.IsAuthenticated() {
		t.Error("expected anonymous session after logout and restart")
	}
	if sessions2.RegisteredUsers() != 1 {
		t.Errorf("expected 1 registered user, got %d", sessions2.RegisteredUsers())
	}
	if _, err := sessions2.Login(ctx, "mona@example.com", "secret123"); err != nil {
		t.Fatalf("login after restart failed: %v", err)
	}

	marks2 := bookmarks.New(ctx, store, log)
	if got := marks2.IDs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected bookmarks [1] after restart, got %v", got)
	}

	bookings2 := booking.NewService(ctx, store, idx, log, 0)
	if bookings2.Count() != 1 {
		t.Errorf("expected 1 booking after restart, got %d", bookings2.Count())
	}
	if all := bookings2.All(); len(all) == 1 && all[0].Reference != b.Reference {
		t.Errorf("expected booking reference %s, got %s", b.Reference, all[0].Reference)
	}
}
