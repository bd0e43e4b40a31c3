package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики регистрируются в глобальном реестре и отдаются через promhttp.Handler().
var (
	// HTTPRequests — количество HTTP запросов API.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_api_http_requests_total",
		Help: "Total HTTP requests handled by mergington_api",
	}, []string{"method", "route", "status"})

	// HTTPDuration — длительность обработки HTTP запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mergington_api_http_request_duration_seconds",
		Help:    "HTTP request latency of mergington_api",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RosterOperations — операции со списками участников по результату.
	RosterOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_roster_operations_total",
		Help: "Roster sign-ups and removals by outcome",
	}, []string{"operation", "result"})

	// EventsPublished — публикации событий в RabbitMQ.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_events_published_total",
		Help: "Roster events published to RabbitMQ by type and outcome",
	}, []string{"type", "result"})

	// NotificationsProcessed — события, обработанные notifier.
	NotificationsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_notifier_messages_total",
		Help: "Roster events consumed by the notifier by type and outcome",
	}, []string{"type", "result"})

	// SnapshotTicks — тики планировщика снимков.
	SnapshotTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_scheduler_snapshot_ticks_total",
		Help: "Roster snapshot ticks by outcome",
	}, []string{"result"})

	// BrokerConnected — 1, пока соединение процесса с RabbitMQ открыто.
	BrokerConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mergington_rabbitmq_connected",
		Help: "Whether the process holds an open RabbitMQ connection",
	}, []string{"process"})

	// BrokerReconnects — успешные переподключения к RabbitMQ.
	BrokerReconnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergington_rabbitmq_reconnects_total",
		Help: "Successful RabbitMQ reconnects by process",
	}, []string{"process"})

	// RosterSize — число участников на занятии по последнему снимку.
	RosterSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mergington_roster_participants",
		Help: "Participants per activity as of the latest snapshot",
	}, []string{"activity"})
)

// Значения label result.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultSkipped  = "skipped"
)
