// Mergington API — HTTP API списков участников внеклассных занятий.
//
// API:
//   - Отдаёт страницу со списком занятий (/static/)
//   - Записывает и удаляет участников (/activities/...)
//   - Публикует события participant.* в RabbitMQ (если EVENTS_ENABLED)
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Mergington/internal/api"
	"github.com/shaiso/Mergington/internal/config"
	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/mq"
	"github.com/shaiso/Mergington/internal/repo"
	"github.com/shaiso/Mergington/internal/roster"
	"github.com/shaiso/Mergington/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting mergington-api")

	if err := run(logger); err != nil {
		logger.Error("mergington-api failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mergington-api stopped")
}

// run поднимает API и блокируется до сигнала завершения.
// Ошибка возвращается после отложенного закрытия хранилища и RabbitMQ.
func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилище
	backend, err := repo.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer backend.Close(context.Background())

	// RabbitMQ (опционально)
	var publisher roster.EventPublisher
	if cfg.EventsEnabled {
		mqConn, err := mq.Dial(mq.ConnectionConfig{
			URL:    cfg.RabbitMQURL,
			Name:   "mergington-api",
			Logger: logger,
		})
		if err != nil {
			logger.Warn("RabbitMQ not available, roster events disabled", "error", err)
		} else {
			defer mqConn.Close()

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	svc := roster.NewService(roster.Config{
		Store:     backend.Store,
		Publisher: publisher,
		Logger:    logger,
	})

	if cfg.SeedOnStart {
		if _, err := svc.Seed(ctx, domain.SeedActivities()); err != nil {
			return err
		}
	}

	var static fs.FS
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
		logger.Info("serving static files from directory", "dir", cfg.StaticDir)
	}

	handler := api.NewHandler(api.Config{
		Roster: svc,
		Static: static,
		Logger: logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}
