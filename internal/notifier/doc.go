// Package notifier реализует процесс mergington-notifier.
//
// participant.signed_up и participant.removed превращаются в уведомления
// участнику и передаются в Sender. roster.snapshot выводится в лог как
// сводка по заполненности занятий.
//
// Sender:
//   - LogSender     — пишет уведомление в лог (по умолчанию)
//   - WebhookSender — POST на NOTIFY_WEBHOOK_URL с retry и backoff
//
// Ошибки разбора события и ответы 4xx от шлюза помечаются mq.Permanent
// и уходят в DLQ сразу. Остальные ошибки Sender повторяются один раз
// через requeue.
package notifier
