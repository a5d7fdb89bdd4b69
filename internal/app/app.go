package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sift/internal/config"
	"github.com/MrSnakeDoc/sift/internal/httpserver"
	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/metrics"
	"github.com/MrSnakeDoc/sift/internal/ratelimit"
	"github.com/MrSnakeDoc/sift/internal/redis"
	"github.com/MrSnakeDoc/sift/internal/scheduler"
	"github.com/MrSnakeDoc/sift/internal/search"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
	redisstore "github.com/MrSnakeDoc/sift/internal/store/redis"
	"github.com/MrSnakeDoc/sift/internal/transport"
	"github.com/MrSnakeDoc/sift/internal/version"

	// Indexer implementations register themselves on import.
	_ "github.com/MrSnakeDoc/sift/internal/indexers/filelist"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/myanonamouse"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/subsplease"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/torznab"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.DefinitionsReloader
	syncer      *scheduler.StateSyncer
	rss         *scheduler.RSSRefresher
	gc          *scheduler.GarbageCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
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

	store := redisstore.NewStore(redisClient)
	memIndex := index.NewMemoryIndex()
	m := metrics.New(nil)

	statuses := status.NewManager(
		status.WithPolicies(
			status.Policy{
				Base:          cfg.OutageBase,
				Max:           cfg.OutageMax,
				DegradedAfter: cfg.OutageDegradedAfter,
				DisabledAfter: cfg.OutageDisabledAfter,
			},
			status.Policy{
				Base:          cfg.AuthBase,
				Max:           cfg.AuthMax,
				DegradedAfter: cfg.AuthDegradedAfter,
				DisabledAfter: cfg.AuthDisabledAfter,
			},
		),
		status.OnChange(m.SetIndexerStatus),
	)
	sessions := session.New(cfg.SessionTTL, session.WithFacts(session.DefaultFactSize, cfg.FactTTL))
	gate := ratelimit.NewGate(cfg.MinRequestInterval)

	client := transport.New(transport.Options{
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.UserAgent,
		Retries:   cfg.RequestRetries,
	}, loggerClient)

	engine := search.NewEngine(search.Deps{
		Status:   statuses,
		Sessions: sessions,
		Gate:     gate,
		Client:   client,
		Metrics:  m,
		Log:      loggerClient,
	}, search.Options{
		Timeout:        cfg.SearchTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
		MaxRequests:    cfg.MaxRequests,
	})

	// Restore backoff state and sessions from the previous run
	syncer := scheduler.NewStateSyncer(store, statuses, sessions, loggerClient, cfg.StateSyncInterval)
	if err := syncer.Restore(context.Background()); err != nil {
		loggerClient.Warn("failed to restore indexer state from redis, starting fresh",
			logger.Error(err))
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewDefinitionsReloader(
		cfg.IndexerFile,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
		gate,
		m,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		memIndex,
		statuses,
		sessions,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	rss := scheduler.NewRSSRefresher(engine, memIndex, loggerClient, cfg.RSSInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		IndexerFile:        cfg.IndexerFile,
		Store:              store,
		MemoryIndex:        memIndex,
		Engine:             engine,
		Status:             statuses,
		Feed:               rss,
		Metrics:            m.Handler(),
		ReloadTrigger:      reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		syncer:      syncer,
		rss:         rss,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting sift v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load definitions and start watching the file
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start definitions reloader: %w", err)
	}
	a.logger.Info("definitions reloader started",
		logger.Int("indexers", a.memIndex.Count()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.syncer.Start(ctx)
	a.logger.Info("state sync started",
		logger.Duration("interval", a.cfg.StateSyncInterval))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	a.rss.Start(ctx)

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
	a.rss.Stop()
	a.gc.Stop()
	a.syncer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Last flush so the next start resumes backoffs and sessions
	if err := a.syncer.Flush(shutdownCtx); err != nil {
		a.logger.Warn("failed to save indexer state to redis", logger.Error(err))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ sift stopped cleanly")
	return nil
}
