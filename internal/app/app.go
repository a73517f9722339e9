package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meCeltic/Bookmark-AI/internal/config"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metadata"
	"github.com/meCeltic/Bookmark-AI/internal/metrics"
	"github.com/meCeltic/Bookmark-AI/internal/redis"
	"github.com/meCeltic/Bookmark-AI/internal/scheduler"
	"github.com/meCeltic/Bookmark-AI/internal/store"
	"github.com/meCeltic/Bookmark-AI/internal/store/memory"
	"github.com/meCeltic/Bookmark-AI/internal/store/postgres"
	redisstore "github.com/meCeltic/Bookmark-AI/internal/store/redis"
	"github.com/meCeltic/Bookmark-AI/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    store.Store
	importer *scheduler.Importer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	metrics.Init()

	// Open the store early - fail fast if unavailable
	st, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.Store, err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized", logger.String("backend", cfg.Store))

	loggerClient.Info("access configured",
		logger.Int("api_users", len(cfg.APITokens)),
		logger.Strings("cors_origins", cfg.CORSOrigins),
		logger.Strings("allowed_cidrs", cfg.AllowedCIDRS),
		logger.Bool("trust_proxy", cfg.TrustProxy))

	fetcher := newFetcher(cfg, loggerClient)

	var importer *scheduler.Importer
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing importer",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewImporter(
			cfg.ImportFile,
			st,
			fetcher,
			loggerClient,
			cfg.ImportInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("import file not configured, seed import disabled")
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Store:           st,
		StoreBackend:    cfg.Store,
		Fetcher:         fetcher,
		APITokens:       cfg.APITokens,
		CORSOrigins:     cfg.CORSOrigins,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RequestTimeout:  cfg.RequestTimeout,
		FetchRateBurst:  cfg.MetadataRateBurst,
		FetchRatePerMin: cfg.MetadataRatePerMin,
		ImportTrigger:   importTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		store:    st,
		importer: importer,
	}
}

// openStore builds the configured backend.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case config.StorePostgres:
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:             cfg.PostgresDSN,
			MaxConns:        int32(cfg.PostgresMaxConns),
			MinConns:        int32(cfg.PostgresMinConns),
			MaxConnLifetime: cfg.PostgresMaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				_ = pg.Close()
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
			log.Info("postgres schema ensured")
		}
		return pg, nil

	default:
		return memory.New(), nil
	}
}

// newFetcher chains the remote summary strategy after the local ones when enabled.
func newFetcher(cfg *config.Config, log logger.Logger) *metadata.Fetcher {
	var remote []metadata.SummaryStrategy
	if cfg.SummaryEnabled {
		remote = append(remote, metadata.NewJinaSummarizer(nil, cfg.SummaryEndpoint, cfg.SummaryTimeout, cfg.FetchMaxBytes, log))
	}
	return metadata.NewFetcher(nil, log, metadata.Options{
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.FetchMaxBytes,
		UserAgent:    cfg.UserAgent,
		Remote:       remote,
	})
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmarkd %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmarkd %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start importer: %w", err)
		}
		a.logger.Info("importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		if a.importer != nil {
			a.importer.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	runErr := g.Wait()

	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
	} else {
		a.logger.Info("✅ Store closed cleanly", logger.String("backend", a.cfg.Store))
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ bookmarkd stopped cleanly")
	return nil
}
