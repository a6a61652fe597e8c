package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()

	idx := index.NewMemoryIndex()
	idx.UpdateDestinations([]*domain.Destination{
		{ID: 1, Name: "Pyramids of Giza", Location: "Giza, Egypt"},
	})

	backend := storage.NewMemoryStore()
	svc := NewService(context.Background(), backend, idx, logger.New("error", false), 0)
	return svc, backend
}

func validInput() Input {
	return Input{
		DestinationID: 1,
		Name:          "Mona",
		Phone:         "01234567890",
		Address:       "12 Nile Corniche, Cairo",
		TravelDate:    time.Now().Add(72 * time.Hour),
		PaymentMethod: domain.PaymentInstaPay,
	}
}

func TestValidate(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		mutate  func(*Input)
		field   string
		message string
	}{
		{
			name:    "short name",
			mutate:  func(in *Input) { in.Name = "M" },
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "whitespace name",
			mutate:  func(in *Input) { in.Name = "  a  " },
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "short phone",
			mutate:  func(in *Input) { in.Phone = "12345" },
			field:   "phone",
			message: "Enter a valid phone number",
		},
		{
			name:    "non numeric phone",
			mutate:  func(in *Input) { in.Phone = "0123456789a" },
			field:   "phone",
			message: "Enter a valid phone number",
		},
		{
			name:    "short address",
			mutate:  func(in *Input) { in.Address = "Cairo" },
			field:   "address",
			message: "Please enter a complete address",
		},
		{
			name:    "past travel date",
			mutate:  func(in *Input) { in.TravelDate = time.Now().Add(-time.Hour) },
			field:   "date",
			message: "Date must be in the future",
		},
		{
			name:    "zero travel date",
			mutate:  func(in *Input) { in.TravelDate = time.Time{} },
			field:   "date",
			message: "Date must be in the future",
		},
		{
			name:    "unknown payment method",
			mutate:  func(in *Input) { in.PaymentMethod = "cash" },
			field:   "paymentMethod",
			message: "Select a payment method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			verr := svc.Validate(in)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if got := verr.Fields[tt.field]; got != tt.message {
				t.Errorf("field %s: expected %q, got %q", tt.field, tt.message, got)
			}
		})
	}

	if verr := svc.Validate(validInput()); verr != nil {
		t.Errorf("expected valid input to pass, got %v", verr)
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	svc, _ := newTestService(t)

	verr := svc.Validate(Input{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Fields) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	b, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if b.Reference == "" {
		t.Error("expected a booking reference")
	}
	if b.Status != domain.BookingConfirmed {
		t.Errorf("expected confirmed status, got %s", b.Status)
	}
	if svc.Count() != 1 {
		t.Errorf("expected 1 booking, got %d", svc.Count())
	}

	// Persisted synchronously.
	if _, err := backend.Get(ctx, storage.KeyBookings); err != nil {
		t.Errorf("bookings not persisted: %v", err)
	}

	// A second booking gets a different reference.
	b2, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if b2.Reference == b.Reference {
		t.Error("expected unique booking references")
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	in := validInput()
	in.Phone = "nope"

	_, err := svc.Create(ctx, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("expected no bookings, got %d", svc.Count())
	}
	if _, err := backend.Get(ctx, storage.KeyBookings); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected nothing persisted, got %v", err)
	}
}

func TestCreateUnknownDestination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	in := validInput()
	in.DestinationID = 404

	_, err := svc.Create(ctx, in)
	if !errors.Is(err, ErrUnknownDestination) {
		t.Fatalf("expected ErrUnknownDestination, got %v", err)
	}
}

func TestBookingsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	idx := index.NewMemoryIndex()
	svc2 := NewService(ctx, backend, idx, logger.New("error", false), 0)
	if svc2.Count() != 1 {
		t.Errorf("expected 1 booking after restart, got %d", svc2.Count())
	}
}

func TestPruneExpired(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	now := time.Now()
	in := validInput()
	in.TravelDate = now.Add(72 * time.Hour)
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Age the booking far past the retention threshold.
	svc.mu.Lock()
	svc.bookings[0].TravelDate = now.Add(-45 * 24 * time.Hour)
	svc.mu.Unlock()

	removed, err := svc.PruneExpired(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("PruneExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed booking, got %d", removed)
	}
	if svc.Count() != 0 {
		t.Errorf("expected no bookings left, got %d", svc.Count())
	}

	// Second pass is a no-op.
	removed, err = svc.PruneExpired(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("PruneExpired failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected no removals, got %d", removed)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{Fields: map[string]string{
		"phone": "Enter a valid phone number",
		"name":  "Name must be at least 2 characters",
	}}

	// Field names are sorted for stable output.
	if got := verr.Error(); got != "invalid booking: name, phone" {
		t.Errorf("unexpected message: %q", got)
	}
}
