package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghostlabs/ghostrank-backend/internal/cron"
	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/invites"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/db"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/ghostlabs/ghostrank-backend/pkg/metrics"
	"github.com/ghostlabs/ghostrank-backend/pkg/migrate"
	"github.com/ghostlabs/ghostrank-backend/pkg/redis"
)

const lockKeyFormat = "cron-worker:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	// The worker runs without a live platform socket. Invite resolution
	// reports tracking unavailable, which the audit job treats as
	// transient, and digest DMs are dropped.
	platform := gateway.Unavailable{}

	invitesSvc, err := invites.NewService(invites.NewRepository(dbClient.DB()), platform, cfg.Community)
	if err != nil {
		logg.Error(context.Background(), "failed to create invites service", err)
		os.Exit(1)
	}
	countersSvc, err := inviters.NewService(inviters.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inviters service", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	if cfg.Digest.Enabled {
		digestJob, err := cron.NewWeeklyDigestJob(cron.WeeklyDigestJobParams{
			Logger:   logg,
			Counter:  countersSvc,
			Notifier: platform,
			Digest:   cfg.Digest,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create weekly digest job", err)
			os.Exit(1)
		}
		registry.Register(digestJob)
	}

	auditJob, err := cron.NewInviteAuditJob(cron.InviteAuditJobParams{
		Logger:   logg,
		Registry: invitesSvc,
		Source:   platform,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invite audit job", err)
		os.Exit(1)
	}
	registry.Register(auditJob)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Digest.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
