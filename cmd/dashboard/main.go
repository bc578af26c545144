package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/adapter/postgres"
	redis_adapter "github.com/user/tcas-fee-crawler/internal/adapter/redis"
	"github.com/user/tcas-fee-crawler/internal/adapter/tabular"
	"github.com/user/tcas-fee-crawler/internal/delivery/http/handler"
	"github.com/user/tcas-fee-crawler/internal/delivery/http/router"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/internal/usecase"
	"github.com/user/tcas-fee-crawler/pkg/config"
	"github.com/user/tcas-fee-crawler/pkg/logger"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
)

func main() {
	// --- Configuration ---
	flags := pflag.NewFlagSet("dashboard", pflag.ExitOnError)
	flags.String("log-level", "info", "Log level (debug, info, warn, error).")
	flags.String("port", "8501", "HTTP listen port.")
	flags.String("data-source", config.DataSourceFile, "Where to load records from: file or postgres.")
	flags.StringSlice("data-file", []string{"tcas_data.xlsx"}, "Record table to load. Repeat to merge a second table.")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		// The logger is not configured yet.
		logger.Init(os.Stderr, "info").Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.Init(os.Stdout, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	metrics.Init()

	ctx := context.Background()
	checks := map[string]handler.Check{}

	// --- Data source ---
	var readers []repository.TableReader
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("unable to connect to database", zap.Error(err))
		}
		defer pool.Close()
		readers = append(readers, postgres.NewProgramRecordRepo(pool))
		checks["postgres"] = pool.Ping
		log.Info("loading records from postgres")
	default:
		for _, path := range cfg.DataFiles {
			readers = append(readers, tabular.NewFileReader(path))
		}
		log.Info("loading records from files", zap.Strings("files", cfg.DataFiles))
	}

	// --- View cache ---
	var cache repository.ViewCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, views will be computed per request", zap.Error(err))
		}
		cache = redis_adapter.NewViewCache(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Use cases ---
	dashboard := usecase.NewDashboard(readers, cache, usecase.DashboardOptions{
		SessionTTL:      cfg.SessionTTL,
		SessionCapacity: cfg.SessionCapacity,
		ViewCacheTTL:    cfg.ViewCacheTTL,
	}, log)
	// A load failure is shown on every page rather than stopping the server.
	_ = dashboard.Load(ctx)

	// --- HTTP Server ---
	h := handler.NewHandler(dashboard, checks, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(h, cfg.SessionTTL, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("dashboard started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
