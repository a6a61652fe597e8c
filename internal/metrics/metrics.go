// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application-level counters for the HTTP handlers,
// stores and the booking service.
type Collector struct {
	registry *prometheus.Registry

	logins         prometheus.Counter
	loginFailures  prometheus.Counter
	signups        prometheus.Counter
	signupFailures prometheus.Counter
	bookmarkOps    *prometheus.CounterVec
	bookings       prometheus.Counter
	bookingLatency prometheus.Histogram
	httpStatus     *prometheus.CounterVec
}

// NewCollector creates a Collector with its own private registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degy_logins_total",
			Help: "Total successful logins",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degy_login_failures_total",
			Help: "Total rejected login attempts",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degy_signups_total",
			Help: "Total successful signups",
		}),
		signupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degy_signup_failures_total",
			Help: "Total rejected signup attempts",
		}),
		bookmarkOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "degy_bookmark_ops_total",
			Help: "Bookmark mutations by operation",
		}, []string{"op"}),
		bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degy_bookings_total",
			Help: "Total confirmed bookings",
		}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "degy_booking_latency_seconds",
			Help:    "Booking processing latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "degy_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.loginFailures,
		c.signups,
		c.signupFailures,
		c.bookmarkOps,
		c.bookings,
		c.bookingLatency,
		c.httpStatus,
	)

	return c
}

// RecordLogin records a login attempt outcome.
func (c *Collector) RecordLogin(ok bool) {
	if ok {
		c.logins.Inc()
	} else {
		c.loginFailures.Inc()
	}
}

// RecordSignup records a signup attempt outcome.
func (c *Collector) RecordSignup(ok bool) {
	if ok {
		c.signups.Inc()
	} else {
		c.signupFailures.Inc()
	}
}

// RecordBookmarkOp records one bookmark mutation ("add", "remove", "toggle").
func (c *Collector) RecordBookmarkOp(op string) {
	c.bookmarkOps.WithLabelValues(op).Inc()
}

// RecordBooking records a confirmed booking and its processing latency.
func (c *Collector) RecordBooking(duration time.Duration) {
	c.bookings.Inc()
	c.bookingLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus records one HTTP response status.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the scrape handler for the private registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
