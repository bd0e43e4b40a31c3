// Mergington Scheduler — периодические снимки списков участников.
//
// По SNAPSHOT_CRON загружает все списки, обновляет метрики и публикует
// roster.snapshot. При STORE_DRIVER=postgres тик выполняет только
// экземпляр, держащий advisory lock. STORE_DRIVER=memory не поддерживается.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Mergington/internal/config"
	"github.com/shaiso/Mergington/internal/mq"
	"github.com/shaiso/Mergington/internal/repo"
	"github.com/shaiso/Mergington/internal/roster"
	"github.com/shaiso/Mergington/internal/scheduler"
	"github.com/shaiso/Mergington/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting mergington-scheduler")

	if err := run(logger); err != nil {
		logger.Error("mergington-scheduler failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mergington-scheduler stopped")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Снимок in-process хранилища был бы всегда пустым: его держит API
	if !cfg.SharedStore() {
		return fmt.Errorf("STORE_DRIVER=%s is local to one process; use mongo or postgres", cfg.StoreDriver)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := repo.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer backend.Close(context.Background())

	// Leader election только для PostgreSQL
	var leader scheduler.Leader
	if backend.Pool != nil {
		lock := repo.NewAdvisoryLock(backend.Pool, repo.SchedulerLockKey)
		defer lock.Release(context.Background())
		leader = lock
	}

	var publisher scheduler.SnapshotPublisher
	mqConn, err := mq.Dial(mq.ConnectionConfig{
		URL:    cfg.RabbitMQURL,
		Name:   "mergington-scheduler",
		Logger: logger,
	})
	if err != nil {
		logger.Warn("RabbitMQ not available, snapshots are recorded as metrics only", "error", err)
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = mq.NewPublisher(mqConn, logger)
	}

	sched, err := scheduler.New(scheduler.Config{
		Source:    roster.NewService(roster.Config{Store: backend.Store, Logger: logger}),
		Publisher: publisher,
		Leader:    leader,
		CronExpr:  cfg.SnapshotCron,
		Timezone:  cfg.SnapshotTimezone,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("invalid SNAPSHOT_CRON: %w", err)
	}

	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler stopped", "error", err)
		}
	}()
	logger.Info("scheduler started", "cron", cfg.SnapshotCron, "next", sched.NextDue(time.Now()))

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.SchedPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}
