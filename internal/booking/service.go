package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

// ErrUnknownDestination is returned when a booking references a
// destination that is not in the catalog.
var ErrUnknownDestination = errors.New("unknown destination")

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// ValidationError carries per-field messages for a rejected booking form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid booking: " + strings.Join(names, ", ")
}

// DestinationLookup resolves catalog destinations by ID.
type DestinationLookup interface {
	GetDestination(id int) (*domain.Destination, bool)
}

// Input is the raw booking form as captured upstream.
type Input struct {
	DestinationID int
	Name          string
	Phone         string
	Address       string
	TravelDate    time.Time
	PaymentMethod domain.PaymentMethod
}

// Service validates booking forms and persists accepted bookings under
// degy_bookings. Accepted bookings go through a fixed processing delay
// standing in for the payment channel round trip.
type Service struct {
	mu      sync.Mutex
	storage storage.Store
	catalog DestinationLookup
	logger  logger.Logger
	now     func() time.Time
	delay   time.Duration

	bookings []domain.Booking
}

// NewService creates a booking service and loads previously accepted
// bookings. A stored value that fails to parse is discarded.
func NewService(ctx context.Context, st storage.Store, catalog DestinationLookup, log logger.Logger, delay time.Duration) *Service {
	s := &Service{
		storage: st,
		catalog: catalog,
		logger:  log,
		now:     time.Now,
		delay:   delay,
	}
	s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) {
	data, err := s.storage.Get(ctx, storage.KeyBookings)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to load bookings", logger.Error(err))
		}
		return
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		s.logger.Warn("discarding corrupt booking list",
			logger.String("key", storage.KeyBookings),
			logger.Error(err))
		_ = s.storage.Delete(ctx, storage.KeyBookings)
		return
	}
	s.bookings = bookings
}

// Validate checks in against the booking form rules. It returns nil when
// the form is acceptable.
func (s *Service) Validate(in Input) *ValidationError {
	fields := make(map[string]string)

	if len(strings.TrimSpace(in.Name)) < 2 {
		fields["name"] = "Name must be at least 2 characters"
	}
	if !phonePattern.MatchString(in.Phone) {
		fields["phone"] = "Enter a valid phone number"
	}
	if len(strings.TrimSpace(in.Address)) < 10 {
		fields["address"] = "Please enter a complete address"
	}
	if !in.TravelDate.After(s.now()) {
		fields["date"] = "Date must be in the future"
	}
	if !in.PaymentMethod.Valid() {
		fields["paymentMethod"] = "Select a payment method"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create validates in and, on success, persists a confirmed booking and
// returns it. The processing delay runs before the booking is committed
// and is not cancellable once started.
func (s *Service) Create(ctx context.Context, in Input) (domain.Booking, error) {
	if verr := s.Validate(in); verr != nil {
		return domain.Booking{}, verr
	}
	if _, ok := s.catalog.GetDestination(in.DestinationID); !ok {
		return domain.Booking{}, ErrUnknownDestination
	}

	time.Sleep(s.delay)

	b := domain.Booking{
		Reference:     uuid.NewString(),
		DestinationID: in.DestinationID,
		Name:          strings.TrimSpace(in.Name),
		Phone:         in.Phone,
		Address:       strings.TrimSpace(in.Address),
		TravelDate:    in.TravelDate,
		PaymentMethod: in.PaymentMethod,
		Status:        domain.BookingConfirmed,
		CreatedAt:     s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = append(s.bookings, b)
	if err := s.persistLocked(ctx); err != nil {
		s.bookings = s.bookings[:len(s.bookings)-1]
		return domain.Booking{}, err
	}

	s.logger.Info("booking confirmed",
		logger.String("reference", b.Reference),
		logger.Int("destination_id", b.DestinationID))

	return b, nil
}

// All returns the accepted bookings, oldest first.
func (s *Service) All() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Count returns the number of accepted bookings.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.bookings)
}

// PruneExpired deletes bookings whose travel date passed more than
// threshold ago and reports how many were removed.
func (s *Service) PruneExpired(ctx context.Context, threshold time.Duration) (int, error) {
	cutoff := s.now().Add(-threshold)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.TravelDate.Before(cutoff) {
			continue
		}
		kept = append(kept, b)
	}

	removed := len(s.bookings) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	prev := s.bookings
	s.bookings = kept
	if err := s.persistLocked(ctx); err != nil {
		s.bookings = prev
		return 0, err
	}

	return removed, nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal bookings: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyBookings, data); err != nil {
		return fmt.Errorf("failed to persist bookings: %w", err)
	}
	return nil
}
