package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler — функция обработки сообщения.
// Возвращает error, если обработка не удалась (сообщение будет nack).
type Handler func(ctx context.Context, msg *Delivery) error

// Delivery — доставленное сообщение.
type Delivery struct {
	// Message — распарсенное сообщение.
	Message Message

	// Redelivered — сообщение уже доставлялось ранее.
	Redelivered bool
}

// permanentError — ошибка, повтор которой не имеет смысла.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку обработчика как неисправимую:
// сообщение уходит в DLQ без повторной попытки.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, помечена ли ошибка как неисправимая.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Outcome — решение по доставленному сообщению.
type Outcome int

const (
	// OutcomeAck — подтвердить.
	OutcomeAck Outcome = iota
	// OutcomeRequeue — вернуть в очередь.
	OutcomeRequeue
	// OutcomeDeadLetter — отклонить без возврата (уйдёт в DLQ).
	OutcomeDeadLetter
)

// Decide выбирает, что сделать с сообщением после обработчика.
// Повторная ошибка на уже переотправленном сообщении отправляет его в DLQ.
func Decide(err error, redelivered bool) Outcome {
	switch {
	case err == nil:
		return OutcomeAck
	case IsPermanent(err), redelivered:
		return OutcomeDeadLetter
	default:
		return OutcomeRequeue
	}
}

// Consumer потребляет сообщения из очереди RabbitMQ.
type Consumer struct {
	conn     *Connection
	logger   *slog.Logger
	queue    Queue
	handler  Handler
	prefetch int

	cancelFunc context.CancelFunc
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — имя очереди.
	Queue Queue

	// Handler — обработчик сообщений.
	Handler Handler

	// Prefetch — количество сообщений для предварительной загрузки.
	Prefetch int
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	return &Consumer{
		conn:     conn,
		logger:   logger.With("queue", cfg.Queue),
		queue:    cfg.Queue,
		handler:  cfg.Handler,
		prefetch: prefetch,
	}
}

// Start запускает потребление сообщений. Блокируется до отмены ctx.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	for {
		deliveries, err := c.setupConsume()
		if err != nil {
			c.logger.Error("failed to setup consume", "error", err)
			if !c.waitReconnect(ctx) {
				return ctx.Err()
			}
			continue
		}

		c.logger.Info("consumer started")

		if err := c.processDeliveries(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("deliveries channel closed, waiting for reconnect")
			if !c.waitReconnect(ctx) {
				return ctx.Err()
			}
		}
	}
}

// waitReconnect ждёт переподключения. false — контекст отменён.
func (c *Consumer) waitReconnect(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.conn.Reconnected():
		return true
	}
}

func (c *Consumer) setupConsume() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		string(c.queue),
		"",    // consumer tag (auto-generated)
		false, // auto-ack (ack вручную)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleDelivery(ctx, raw)
		}
	}
}

// handleDelivery обрабатывает одно сообщение и подтверждает его по Decide.
func (c *Consumer) handleDelivery(ctx context.Context, raw amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(raw.Body, &msg); err != nil {
		c.logger.Error("failed to unmarshal message", "error", err, "body", string(raw.Body))
		c.settle(raw, OutcomeDeadLetter)
		return
	}

	logger := c.logger.With("message_id", msg.ID, "type", msg.Type)
	logger.Debug("received message", "redelivered", raw.Redelivered)

	err := c.handler(ctx, &Delivery{Message: msg, Redelivered: raw.Redelivered})
	outcome := Decide(err, raw.Redelivered)
	if err != nil {
		logger.Error("handler failed", "error", err, "dead_letter", outcome == OutcomeDeadLetter)
	}

	c.settle(raw, outcome)
}

func (c *Consumer) settle(raw amqp.Delivery, outcome Outcome) {
	var err error
	switch outcome {
	case OutcomeAck:
		err = raw.Ack(false)
	case OutcomeRequeue:
		err = raw.Nack(false, true)
	case OutcomeDeadLetter:
		err = raw.Nack(false, false)
	}
	if err != nil {
		c.logger.Warn("failed to settle delivery", "error", err)
	}
}

// Stop останавливает consumer.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}

// ParsePayload парсит payload сообщения в указанный тип.
// После json.Unmarshal payload лежит как map[string]any, поэтому
// перекодируем его через JSON.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}

	if err := json.Unmarshal(payloadBytes, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}

	return result, nil
}
