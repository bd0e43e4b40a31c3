package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeRosters Exchange = "mergington.rosters"
	ExchangeDLQ     Exchange = "mergington.dlq"
)

// Queues — имена очередей.
const (
	QueueNotifications Queue = "rosters.notifications"
	QueueSnapshots     Queue = "rosters.snapshots"
	QueueDLQRosters    Queue = "dlq.rosters"
)

// Routing keys. Совпадают с типами сообщений.
const (
	RoutingKeySignedUp   RoutingKey = RoutingKey(MessageTypeParticipantSignedUp)
	RoutingKeyRemoved    RoutingKey = RoutingKey(MessageTypeParticipantRemoved)
	RoutingKeySnapshot   RoutingKey = RoutingKey(MessageTypeRosterSnapshot)
	RoutingKeyDLQRosters RoutingKey = "rosters"
)

// binding — привязка очереди к обменнику.
type binding struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

// bindings — полная таблица привязок топологии.
var bindings = []binding{
	{QueueNotifications, RoutingKeySignedUp, ExchangeRosters},
	{QueueNotifications, RoutingKeyRemoved, ExchangeRosters},
	{QueueSnapshots, RoutingKeySnapshot, ExchangeRosters},
	{QueueDLQRosters, RoutingKeyDLQRosters, ExchangeDLQ},
}

// SetupTopology объявляет exchanges, queues и bindings.
// Операции идемпотентны, поэтому вызывается каждым процессом при старте.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	for _, name := range []Exchange{ExchangeRosters, ExchangeDLQ} {
		err := ch.ExchangeDeclare(
			string(name), // name
			"direct",     // type
			true,         // durable
			false,        // auto-deleted
			false,        // internal
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", name, err)
		}
	}
	return nil
}

// queueArgs возвращает аргументы очереди.
// Уведомления, которые не удалось обработать, уходят в dlq.rosters.
func queueArgs(q Queue) amqp.Table {
	if q != QueueNotifications {
		return nil
	}
	return amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQRosters),
	}
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	for _, q := range []Queue{QueueNotifications, QueueSnapshots, QueueDLQRosters} {
		_, err := ch.QueueDeclare(
			string(q),    // name
			true,         // durable
			false,        // delete when unused
			false,        // exclusive
			false,        // no-wait
			queueArgs(q), // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}
	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}
	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Mergington RabbitMQ Topology:

    mergington.rosters (direct)
    ├── rosters.notifications [routing: participant.signed_up, participant.removed]
    │       Consumer: Notifier
    │       DLQ: dlq.rosters
    └── rosters.snapshots [routing: roster.snapshot]
            Consumer: Notifier (digest)

    mergington.dlq (direct)
    └── dlq.rosters [routing: rosters]
            Manual processing
  `
}
