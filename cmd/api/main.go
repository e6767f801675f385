package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghostlabs/ghostrank-backend/api/routes"
	"github.com/ghostlabs/ghostrank-backend/internal/fraud"
	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/invites"
	"github.com/ghostlabs/ghostrank-backend/internal/joins"
	"github.com/ghostlabs/ghostrank-backend/internal/roles"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/db"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/ghostlabs/ghostrank-backend/pkg/metrics"
	"github.com/ghostlabs/ghostrank-backend/pkg/migrate"
	"github.com/ghostlabs/ghostrank-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(context.Background(), "failed to get sql handle", err)
		os.Exit(1)
	}
	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, sqlDB); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// The API binary has no live platform socket; it serves reads and lets
	// the tracker reject anything that would need invite usage.
	platform := gateway.Unavailable{}

	invitesSvc, err := invites.NewService(invites.NewRepository(dbClient.DB()), platform, cfg.Community)
	if err != nil {
		logg.Error(context.Background(), "failed to create invites service", err)
		os.Exit(1)
	}
	joinsSvc, err := joins.NewService(joins.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create joins service", err)
		os.Exit(1)
	}
	countersSvc, err := inviters.NewService(inviters.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inviters service", err)
		os.Exit(1)
	}
	executor, err := roles.NewExecutor(platform, cfg.Roles, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create role executor", err)
		os.Exit(1)
	}

	trackerSvc, err := tracker.NewService(tracker.Deps{
		Session:   tracker.NewSession(cfg.Community.ID),
		Source:    platform,
		Directory: platform,
		Invites:   invitesSvc,
		Joins:     joinsSvc,
		Counter:   countersSvc,
		Heuristic: fraud.NewHeuristic(cfg.Tracking),
		Executor:  executor,
		Tracking:  cfg.Tracking,
		Metrics:   metrics.NewTrackerMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tracker service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:  cfg,
			Logger:  logg,
			DB:      dbClient,
			Redis:   redisClient,
			Tracker: trackerSvc,
			Metrics: prometheus.DefaultGatherer,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}
}
