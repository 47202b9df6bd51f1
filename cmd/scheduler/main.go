package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	imclient "indiamart_bridge/internal/indiamart/client"
	imrepo "indiamart_bridge/internal/indiamart/repository"
	imservice "indiamart_bridge/internal/indiamart/service"
	"indiamart_bridge/internal/leads"
	"indiamart_bridge/internal/notification"
	"indiamart_bridge/internal/scheduler"
	"indiamart_bridge/platform/config"
	"indiamart_bridge/platform/db"
	"indiamart_bridge/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "interval", cfg.FetchInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var notifier imservice.Notifier
	if n := notification.NewSMTPNotifier(cfg, log); n != nil {
		notifier = n
		log.Info("fetch failure alerts enabled", "to", cfg.AlertToAddress)
	}

	leadRepo := leads.NewRepository(pool)
	integrationRepo := imrepo.New(pool)
	pullClient := imclient.New(cfg.GetIndiaMARTBaseURL(), log)
	fetchService := imservice.New(pullClient, leadRepo, integrationRepo, integrationRepo, notifier, log)

	periodic, err := scheduler.NewPeriodicScheduler(cfg)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}
	go func() {
		<-ctx.Done()
		periodic.Shutdown()
	}()
	go func() {
		if err := periodic.Run(); err != nil {
			log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	worker, err := scheduler.NewWorker(cfg, fetchService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
