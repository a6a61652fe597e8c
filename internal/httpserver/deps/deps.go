package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/bookmarks"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/metrics"
	"github.com/degyhq/degy/internal/session"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the server
	AllowedCIDRS  []string           // IPs allowed to access operational endpoints
	TrustProxy    bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CatalogFile   string             // Path to the destination catalog file
	RedisClient   *redis.Client      // Redis client connection (nil in memory mode)
	Catalog       *index.MemoryIndex // In-memory destination catalog
	Sessions      *session.Store     // Session store (login/signup/logout)
	Bookmarks     *bookmarks.Store   // Saved-destination set
	Bookings      *booking.Service   // Booking validation + persistence
	Metrics       *metrics.Collector // Prometheus collector
	ReloadTrigger chan struct{}      // Channel to trigger manual catalog reload
}
