package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Mergington/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeParticipantSignedUp MessageType = "participant.signed_up"
	MessageTypeParticipantRemoved  MessageType = "participant.removed"
	MessageTypeRosterSnapshot      MessageType = "roster.snapshot"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ParticipantPayload — payload для событий записи и удаления участника.
type ParticipantPayload struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// SnapshotPayload — payload снимка всех списков участников.
type SnapshotPayload struct {
	TakenAt    time.Time         `json:"taken_at"`
	Activities []domain.Activity `json:"activities"`
}

// NewMessage создаёт сообщение с новым ID и текущим временем.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в exchange mergington.rosters.
// Routing key совпадает с типом сообщения.
func (p *Publisher) Publish(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	routingKey := RoutingKey(msg.Type)

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeRosters), // exchange
			string(routingKey),      // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeRosters, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", ExchangeRosters,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishParticipantSignedUp публикует событие о записи участника.
// Потребитель: Notifier.
func (p *Publisher) PublishParticipantSignedUp(ctx context.Context, activity, email string) error {
	return p.Publish(ctx, NewMessage(MessageTypeParticipantSignedUp, ParticipantPayload{
		Activity: activity,
		Email:    email,
	}))
}

// PublishParticipantRemoved публикует событие об удалении участника.
// Потребитель: Notifier.
func (p *Publisher) PublishParticipantRemoved(ctx context.Context, activity, email string) error {
	return p.Publish(ctx, NewMessage(MessageTypeParticipantRemoved, ParticipantPayload{
		Activity: activity,
		Email:    email,
	}))
}

// PublishRosterSnapshot публикует снимок всех списков.
// Источник: Scheduler. Потребитель: Notifier.
func (p *Publisher) PublishRosterSnapshot(ctx context.Context, takenAt time.Time, activities []domain.Activity) error {
	return p.Publish(ctx, NewMessage(MessageTypeRosterSnapshot, SnapshotPayload{
		TakenAt:    takenAt,
		Activities: activities,
	}))
}
