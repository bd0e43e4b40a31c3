// Mergington Notifier — уведомления участникам по событиям списков.
//
// Notifier:
//   - Получает participant.signed_up / participant.removed из RabbitMQ
//   - Отправляет уведомления через Sender (в лог или на NOTIFY_WEBHOOK_URL)
//   - Пишет сводку по roster.snapshot
//
// Несколько экземпляров могут работать параллельно.
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
	"github.com/shaiso/Mergington/internal/notifier"
	"github.com/shaiso/Mergington/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting mergington-notifier")

	if err := run(logger); err != nil {
		logger.Error("mergington-notifier failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mergington-notifier stopped")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Без RabbitMQ notifier бесполезен
	mqConn, err := mq.Dial(mq.ConnectionConfig{
		URL:    cfg.RabbitMQURL,
		Name:   "mergington-notifier",
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		return fmt.Errorf("setup topology: %w", err)
	}
	logger.Debug("topology ready", "topology", mq.TopologyInfo())

	var sender notifier.Sender = notifier.NewLogSender(logger)
	if cfg.NotifyWebhookURL != "" {
		sender = notifier.NewWebhookSender(notifier.WebhookConfig{
			URL:          cfg.NotifyWebhookURL,
			MaxAttempts:  cfg.NotifyMaxAttempts,
			InitialDelay: cfg.NotifyWebhookDelay,
		})
		logger.Info("delivering notifications to webhook", "url", cfg.NotifyWebhookURL)
	}

	n := notifier.New(notifier.Config{
		Conn:   mqConn,
		Sender: sender,
		Logger: logger,
	})
	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("start notifier: %w", err)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			http.Error(w, "rabbitmq "+mqConn.State().String(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.NotifierPort,
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

	n.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}
