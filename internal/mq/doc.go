// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий списков участников
//   - consumer.go   — потребление сообщений и решение ack/requeue/DLQ
//
// Типы сообщений:
//   - participant.signed_up — студент записан на занятие
//   - participant.removed   — студент удалён из занятия
//   - roster.snapshot       — периодический снимок всех списков
//
// Exchanges:
//   - mergington.rosters — события списков
//   - mergington.dlq     — dead letter queue
package mq
