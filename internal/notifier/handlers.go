package notifier

import (
	"context"
	"fmt"

	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/mq"
	"github.com/shaiso/Mergington/internal/telemetry"
)

// Handle обрабатывает одно событие из очереди.
// Неизвестные типы подтверждаются и пишутся в лог на уровне WARN.
func (n *Notifier) Handle(ctx context.Context, delivery *mq.Delivery) error {
	msg := &delivery.Message
	logger := telemetry.WithMessageID(n.logger, msg.ID)

	var err error
	switch msg.Type {
	case mq.MessageTypeParticipantSignedUp, mq.MessageTypeParticipantRemoved:
		err = n.handleParticipant(ctx, msg)
	case mq.MessageTypeRosterSnapshot:
		err = n.handleSnapshot(msg)
	default:
		logger.Warn("unknown message type, skipping", "type", msg.Type)
		telemetry.NotificationsProcessed.WithLabelValues(string(msg.Type), telemetry.ResultSkipped).Inc()
		return nil
	}

	result := telemetry.ResultOK
	if err != nil {
		result = telemetry.ResultError
		if mq.IsPermanent(err) {
			result = telemetry.ResultInvalid
		}
	}
	telemetry.NotificationsProcessed.WithLabelValues(string(msg.Type), result).Inc()

	return err
}

// handleParticipant отправляет участнику уведомление о записи или удалении.
func (n *Notifier) handleParticipant(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.ParticipantPayload](msg)
	if err != nil {
		return mq.Permanent(err)
	}
	if payload.Email == "" {
		return mq.Permanent(ErrEmptyRecipient)
	}
	if payload.Activity == "" {
		return mq.Permanent(ErrEmptyActivity)
	}

	notification := BuildNotification(msg.Type, payload)
	if err := n.sender.Send(ctx, notification); err != nil {
		return fmt.Errorf("send %s notification to %s: %w", notification.Kind, payload.Email, err)
	}
	return nil
}

// BuildNotification составляет текст уведомления по событию.
func BuildNotification(msgType mq.MessageType, p mq.ParticipantPayload) Notification {
	if msgType == mq.MessageTypeParticipantRemoved {
		return Notification{
			Kind:     KindRemoval,
			To:       p.Email,
			Activity: p.Activity,
			Subject:  fmt.Sprintf("You have been removed from %s", p.Activity),
			Body:     fmt.Sprintf("%s is no longer on the %s roster.", p.Email, p.Activity),
		}
	}
	return Notification{
		Kind:     KindWelcome,
		To:       p.Email,
		Activity: p.Activity,
		Subject:  fmt.Sprintf("Welcome to %s", p.Activity),
		Body:     fmt.Sprintf("%s is now signed up for %s.", p.Email, p.Activity),
	}
}

// handleSnapshot пишет в лог сводку по заполненности занятий.
func (n *Notifier) handleSnapshot(msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.SnapshotPayload](msg)
	if err != nil {
		return mq.Permanent(err)
	}

	total := 0
	for _, a := range payload.Activities {
		total += len(a.Participants)
		n.logger.Info("roster digest",
			"activity", a.Name,
			"participants", len(a.Participants),
			"max_participants", a.MaxParticipants,
			"fill_ratio", FillRatio(a),
		)
	}

	n.logger.Info("roster snapshot received",
		"taken_at", payload.TakenAt,
		"activities", len(payload.Activities),
		"participants", total,
	)
	return nil
}

// FillRatio — доля занятых мест. Может быть больше 1,
// так как вместимость не ограничивает запись.
func FillRatio(a domain.Activity) float64 {
	if a.MaxParticipants <= 0 {
		return 0
	}
	return float64(len(a.Participants)) / float64(a.MaxParticipants)
}
