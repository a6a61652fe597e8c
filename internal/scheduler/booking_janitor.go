package scheduler

import (
	"context"
	"time"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/logger"
)

const (
	// DefaultJanitorThreshold is how long past its travel date a booking
	// is kept before deletion
	DefaultJanitorThreshold = 30 * 24 * time.Hour // 30 days
)

// BookingJanitor handles cleanup of bookings whose travel date is long past
type BookingJanitor struct {
	bookings  *booking.Service
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewBookingJanitor creates a new booking janitor
func NewBookingJanitor(
	bookings *booking.Service,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *BookingJanitor {
	if threshold == 0 {
		threshold = DefaultJanitorThreshold
	}

	return &BookingJanitor{
		bookings:  bookings,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic cleanup process
func (bj *BookingJanitor) Start(ctx context.Context) error {
	// Run immediately on start
	if err := bj.Collect(ctx); err != nil {
		bj.logger.Warn("initial booking cleanup failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(bj.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := bj.Collect(ctx); err != nil {
					bj.logger.Error("booking cleanup failed",
						logger.Error(err))
				}
			case <-bj.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor
func (bj *BookingJanitor) Stop() {
	close(bj.stopCh)
}

// Collect removes bookings whose travel date passed more than the
// threshold ago
func (bj *BookingJanitor) Collect(ctx context.Context) error {
	bj.logger.Debug("running booking cleanup")

	removed, err := bj.bookings.PruneExpired(ctx, bj.threshold)
	if err != nil {
		return err
	}

	if removed > 0 {
		bj.logger.Info("booking cleanup completed",
			logger.Int("bookings_deleted", removed))
	} else {
		bj.logger.Debug("no bookings to clean up")
	}

	return nil
}
