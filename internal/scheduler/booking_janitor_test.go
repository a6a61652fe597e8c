package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

func TestBookingJanitor_Collect(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)

	idx := index.NewMemoryIndex()
	idx.UpdateDestinations([]*domain.Destination{
		{ID: 1, Name: "Pyramids of Giza", Location: "Giza, Egypt"},
	})

	backend := storage.NewMemoryStore()
	bookings := booking.NewService(ctx, backend, idx, log, 0)

	now := time.Now()
	input := booking.Input{
		DestinationID: 1,
		Name:          "Mona",
		Phone:         "01234567890",
		Address:       "12 Nile Corniche, Cairo",
		PaymentMethod: domain.PaymentInstaPay,
	}

	// An upcoming trip and a trip long in the past. The past one has
	// to be written straight to storage: Create refuses past dates.
	input.TravelDate = now.Add(72 * time.Hour)
	if _, err := bookings.Create(ctx, input); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expired := domain.Booking{
		Reference:     "expired-trip",
		DestinationID: 1,
		Name:          "Mona",
		Phone:         "01234567890",
		Address:       "12 Nile Corniche, Cairo",
		TravelDate:    now.Add(-45 * 24 * time.Hour), // 45 days ago
		PaymentMethod: domain.PaymentInstaPay,
		Status:        domain.BookingConfirmed,
		CreatedAt:     now.Add(-50 * 24 * time.Hour),
	}
	seedBooking(t, ctx, backend, expired)

	// Reload so the seeded booking is in memory.
	bookings = booking.NewService(ctx, backend, idx, log, 0)
	if bookings.Count() != 2 {
		t.Fatalf("expected 2 bookings before collect, got %d", bookings.Count())
	}

	// Create janitor with 30 day threshold
	bj := NewBookingJanitor(
		bookings,
		log,
		24*time.Hour,
		30*24*time.Hour,
	)

	if err := bj.Collect(ctx); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if bookings.Count() != 1 {
		t.Errorf("expected 1 booking after collect, got %d", bookings.Count())
	}
	for _, b := range bookings.All() {
		if b.Reference == "expired-trip" {
			t.Error("expected expired booking to be pruned")
		}
	}
}

func TestBookingJanitor_DefaultThreshold(t *testing.T) {
	bj := NewBookingJanitor(nil, logger.New("error", false), time.Hour, 0)
	if bj.threshold != DefaultJanitorThreshold {
		t.Errorf("expected default threshold %v, got %v", DefaultJanitorThreshold, bj.threshold)
	}
}

// seedBooking appends b to the persisted booking list, bypassing the
// service's validation.
func seedBooking(t *testing.T, ctx context.Context, st storage.Store, b domain.Booking) {
	t.Helper()

	var existing []domain.Booking
	if data, err := st.Get(ctx, storage.KeyBookings); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			t.Fatalf("existing bookings not parseable: %v", err)
		}
	}
	existing = append(existing, b)

	data, err := json.Marshal(existing)
	if err != nil {
		t.Fatalf("failed to marshal bookings: %v", err)
	}
	if err := st.Set(ctx, storage.KeyBookings, data); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
}
