package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// BackendRedis persists state in Redis (default).
	BackendRedis = "redis"
	// BackendMemory keeps state in process memory only. Useful for local
	// development; nothing survives a restart.
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile      string        // path to the destinations.yaml catalog file
	ReloadInterval   time.Duration // interval to reload the catalog file (default: 24h)
	JanitorInterval  time.Duration // interval to prune expired bookings (default: 24h)
	JanitorThreshold time.Duration // how long past travel date bookings are kept (default: 30d)
	BookingDelay     time.Duration // fixed booking processing delay (default: 1s)

	StorageBackend string // "redis" | "memory"

	// Redis (only read when StorageBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	RateLimitBurst  int // token bucket burst per client IP
	RateLimitPerMin int // token refill per client IP per minute

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict operational endpoints to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DEGY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DEGY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DEGY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DEGY_PRETTY_LOG", true),

		// Catalog and background jobs
		CatalogFile:      getenv("DEGY_CATALOG_FILE", "/app/destinations.yaml"),
		ReloadInterval:   mustDuration("DEGY_RELOAD_CATALOG_INTERVAL", 24*time.Hour),
		JanitorInterval:  mustDuration("DEGY_JANITOR_INTERVAL", 24*time.Hour),
		JanitorThreshold: mustDuration("DEGY_JANITOR_THRESHOLD", 30*24*time.Hour),
		BookingDelay:     mustDuration("DEGY_BOOKING_DELAY", time.Second),

		StorageBackend: getenv("DEGY_STORAGE_BACKEND", BackendRedis),

		// Rate limiting
		RateLimitBurst:  getenvInt("DEGY_RATE_LIMIT_BURST", 20),
		RateLimitPerMin: getenvInt("DEGY_RATE_LIMIT_PER_MIN", 60),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("DEGY_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("DEGY_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("DEGY_TRUST_PROXY", true),
	}

	switch cfg.StorageBackend {
	case BackendRedis:
		cfg.RedisAddr = requireEnv("DEGY_REDIS_ADDR")
		cfg.RedisUser = getenv("DEGY_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("DEGY_REDIS_PASSWORD_REQUIRED", true)
		cfg.RedisPassword = getenv("DEGY_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("DEGY_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: DEGY_REDIS_PASSWORD is required when DEGY_REDIS_PASSWORD_REQUIRED=true")
		}
	case BackendMemory:
		// Nothing to validate; state lives and dies with the process.
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown DEGY_STORAGE_BACKEND %q (want %q or %q)",
			cfg.StorageBackend, BackendRedis, BackendMemory))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
