package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/degyhq/degy/internal/booking"
	"github.com/degyhq/degy/internal/bookmarks"
	"github.com/degyhq/degy/internal/config"
	"github.com/degyhq/degy/internal/httpserver"
	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/metrics"
	"github.com/degyhq/degy/internal/redis"
	"github.com/degyhq/degy/internal/scheduler"
	"github.com/degyhq/degy/internal/session"
	"github.com/degyhq/degy/internal/storage"
	"github.com/degyhq/degy/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.CatalogReloader
	janitor     *scheduler.BookingJanitor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the persistence backend. Redis is the production default;
	// the memory backend exists for local development and tests.
	var (
		store       storage.Store
		redisClient *goredis.Client
		mirror      *storage.CatalogMirror
	)
	switch cfg.StorageBackend {
	case config.BackendRedis:
		// Initialize Redis early - fail fast if unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")

		redisClient = client
		store = storage.NewRedisStore(client)
		mirror = storage.NewCatalogMirror(client)
	case config.BackendMemory:
		loggerClient.Warn("using in-memory storage backend, state will not survive restarts")
		store = storage.NewMemoryStore()
	}

	ctx := context.Background()

	// Initialize memory index
	memIndex := index.NewMemoryIndex()

	// Warm the index from the Redis mirror so destinations are searchable
	// before the first catalog file reload completes.
	if mirror != nil {
		syncer := scheduler.NewCatalogSyncer(mirror, memIndex, loggerClient)
		if err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to sync catalog from redis on startup, will load from file",
				logger.Error(err))
		}
	}

	// State stores over the persistence backend
	sessions := session.New(ctx, store, loggerClient)
	marks := bookmarks.New(ctx, store, loggerClient)
	bookings := booking.NewService(ctx, store, memIndex, loggerClient, cfg.BookingDelay)

	collector := metrics.NewCollector()

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	// Initialize catalog reloader
	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		mirror,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Initialize booking janitor
	janitor := scheduler.NewBookingJanitor(
		bookings,
		loggerClient,
		cfg.JanitorInterval,
		cfg.JanitorThreshold,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CatalogFile:   cfg.CatalogFile,
		RedisClient:   redisClient,
		Catalog:       memIndex,
		Sessions:      sessions,
		Bookmarks:     marks,
		Bookings:      bookings,
		Metrics:       collector,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		janitor:     janitor,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Degy v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Degy %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads destinations and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start booking janitor
	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start booking janitor: %w", err)
	}
	a.logger.Info("booking janitor started",
		logger.Duration("interval", a.cfg.JanitorInterval),
		logger.Duration("threshold", a.cfg.JanitorThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Degy stopped cleanly")
	return nil
}
