// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Все процессы (api, notifier, scheduler) используют единый формат
// логирования и экспортируют метрики на /metrics endpoint.
package telemetry
