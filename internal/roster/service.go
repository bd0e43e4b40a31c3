package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/mq"
	"github.com/shaiso/Mergington/internal/repo"
	"github.com/shaiso/Mergington/internal/telemetry"
)

// EventPublisher — получатель событий об изменении списков.
// Реализуется *mq.Publisher.
type EventPublisher interface {
	PublishParticipantSignedUp(ctx context.Context, activity, email string) error
	PublishParticipantRemoved(ctx context.Context, activity, email string) error
}

// Service — операции со списками участников занятий.
type Service struct {
	store     repo.ActivityStore
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Config — конфигурация для создания Service.
type Config struct {
	Store repo.ActivityStore

	// Publisher — опционален; без него события не публикуются.
	Publisher EventPublisher

	Logger *slog.Logger
}

// NewService создаёт новый Service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListActivities возвращает все занятия.
func (s *Service) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	activities, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// GetActivity возвращает занятие по имени.
func (s *Service) GetActivity(ctx context.Context, name string) (*domain.Activity, error) {
	return s.store.Get(ctx, name)
}

// SignUp записывает студента на занятие и возвращает сообщение для ответа.
// Неизвестное занятие даёт ErrNotFound даже при некорректном email.
func (s *Service) SignUp(ctx context.Context, name, email string) (string, error) {
	if err := domain.ValidateEmail(email); err != nil {
		if !errors.Is(err, domain.ErrEmailRequired) {
			if _, getErr := s.store.Get(ctx, name); getErr != nil {
				telemetry.RosterOperations.WithLabelValues("signup", resultOf(getErr)).Inc()
				return "", getErr
			}
		}
		telemetry.RosterOperations.WithLabelValues("signup", telemetry.ResultInvalid).Inc()
		return "", err
	}

	if err := s.store.AddParticipant(ctx, name, email); err != nil {
		telemetry.RosterOperations.WithLabelValues("signup", resultOf(err)).Inc()
		return "", err
	}
	telemetry.RosterOperations.WithLabelValues("signup", telemetry.ResultOK).Inc()

	logger := telemetry.WithActivity(s.logger, name)
	logger.Info("participant signed up", "email", email)

	if s.publisher != nil {
		err := s.publisher.PublishParticipantSignedUp(ctx, name, email)
		s.recordPublish(logger, mq.MessageTypeParticipantSignedUp, err)
	}

	return fmt.Sprintf("Signed up %s for %s", email, name), nil
}

// Remove удаляет студента из занятия и возвращает сообщение для ответа.
// Email сверяется со списком как есть, без проверки формы.
func (s *Service) Remove(ctx context.Context, name, email string) (string, error) {
	if err := domain.RequireEmail(email); err != nil {
		telemetry.RosterOperations.WithLabelValues("remove", telemetry.ResultInvalid).Inc()
		return "", err
	}

	if err := s.store.RemoveParticipant(ctx, name, email); err != nil {
		telemetry.RosterOperations.WithLabelValues("remove", resultOf(err)).Inc()
		return "", err
	}
	telemetry.RosterOperations.WithLabelValues("remove", telemetry.ResultOK).Inc()

	logger := telemetry.WithActivity(s.logger, name)
	logger.Info("participant removed", "email", email)

	if s.publisher != nil {
		err := s.publisher.PublishParticipantRemoved(ctx, name, email)
		s.recordPublish(logger, mq.MessageTypeParticipantRemoved, err)
	}

	return fmt.Sprintf("Removed %s from %s", email, name), nil
}

// recordPublish логирует результат публикации.
// Ошибка не возвращается клиенту: изменение списка уже сохранено.
func (s *Service) recordPublish(logger *slog.Logger, msgType mq.MessageType, err error) {
	if err != nil {
		telemetry.EventsPublished.WithLabelValues(string(msgType), telemetry.ResultError).Inc()
		logger.Warn("failed to publish roster event", "type", msgType, "error", err)
		return
	}
	telemetry.EventsPublished.WithLabelValues(string(msgType), telemetry.ResultOK).Inc()
}

// Seed заполняет пустое хранилище начальными занятиями.
// Если в хранилище уже есть документы, ничего не делает и возвращает false.
func (s *Service) Seed(ctx context.Context, activities []domain.Activity) (bool, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count activities: %w", err)
	}
	if count > 0 {
		s.logger.Debug("store already seeded", "activities", count)
		return false, nil
	}

	if err := s.store.InsertMany(ctx, activities); err != nil {
		return false, fmt.Errorf("seed activities: %w", err)
	}

	s.logger.Info("seeded activities", "count", len(activities))
	return true, nil
}

// Snapshot возвращает текущее состояние всех списков.
func (s *Service) Snapshot(ctx context.Context) (mq.SnapshotPayload, error) {
	activities, err := s.ListActivities(ctx)
	if err != nil {
		return mq.SnapshotPayload{}, err
	}
	return mq.SnapshotPayload{
		TakenAt:    s.now().UTC(),
		Activities: activities,
	}, nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return telemetry.ResultNotFound
	case errors.Is(err, repo.ErrAlreadyExists):
		return telemetry.ResultConflict
	default:
		return telemetry.ResultError
	}
}
