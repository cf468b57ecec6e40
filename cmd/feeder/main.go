package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"viral_feed/internal/archive"
	"viral_feed/internal/config"
	"viral_feed/internal/domain"
	"viral_feed/internal/feed"
	"viral_feed/internal/hydrate"
	"viral_feed/internal/metrics"
	"viral_feed/internal/publisher"
	"viral_feed/internal/scheduler"
	"viral_feed/internal/service"
	"viral_feed/internal/source/gemini"
	"viral_feed/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	simulate := flag.Bool("simulate", false, "generate one article for the configured niche, print it and exit")
	hydratePostID := flag.String("hydrate", "", "hydrate the archived post with this key or id, print it and exit")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Gemini client
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		ImageModel:        cfg.Gemini.ImageModel,
		MaxAttempts:       cfg.Gemini.Retry.MaxAttempts,
		InitialBackoff:    cfg.Gemini.Retry.InitialBackoff,
		MaxBackoff:        cfg.Gemini.Retry.MaxBackoff,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		BreakerFailures:   cfg.Gemini.CircuitBreaker.FailureThreshold,
		BreakerTimeout:    cfg.Gemini.CircuitBreaker.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	categories := cfg.Feed.Categories()
	generator := feed.NewGenerator(client, categories, cfg.Gemini.Timeout, logger)
	hydrator := hydrate.NewHydrator(client, cfg.Gemini.Timeout, logger)

	rng := archive.NewRand()
	if cfg.Feed.Seed != 0 {
		rng = archive.NewSeededRand(cfg.Feed.Seed)
	}
	pool, initial := service.Bootstrap(categories, rng)

	deps := service.Deps{
		Generator:   generator,
		Hydrator:    hydrator,
		Images:      client,
		Archive:     pool,
		InitialFeed: initial,
		SiteURL:     cfg.Feed.SiteURL,
	}

	// Initialize stores
	if cfg.Database.Enabled {
		db, err := connectDatabase(cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		deps.Posts = postgres.NewPostStore(db)
		deps.Contents = postgres.NewContentStore(db)
		deps.RunState = postgres.NewRunStateStore(db)
		deps.TxManager = postgres.NewTransactionManager(db)
	}

	// Initialize RabbitMQ publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()

		deps.Publisher = rabbitMQ
	}

	blog := service.NewBlogService(deps, logger)
	pipeline := func() domain.PipelineConfig { return cfg.Pipeline.Domain() }

	cmd := oneShot{simulate: *simulate, hydrate: *hydratePostID}
	if err := startup(ctx, blog, cfg.Feed.RestoreLimit, cmd, pipeline(), os.Stdout, logger); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	if cmd.requested() {
		return
	}

	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer shutdown(srv, logger)
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
	}

	sched := scheduler.NewScheduler(blog, cfg.Feed.Interval, cfg.Feed.RunTimeout, pipeline, logger)

	logger.Info("starting viral feed",
		"source", gemini.SourceID,
		"interval", cfg.Feed.Interval,
		"categories", len(categories),
		"archive_size", pool.Len(),
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func connectDatabase(cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("connected to database")

	return db, nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
