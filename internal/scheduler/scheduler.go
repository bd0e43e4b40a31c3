package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/mq"
	"github.com/shaiso/Mergington/internal/telemetry"
)

// SnapshotSource отдаёт текущее состояние списков. Реализуется *roster.Service.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (mq.SnapshotPayload, error)
}

// SnapshotPublisher публикует снимок. Реализуется *mq.Publisher.
type SnapshotPublisher interface {
	PublishRosterSnapshot(ctx context.Context, takenAt time.Time, activities []domain.Activity) error
}

// Leader решает, должен ли этот экземпляр выполнять тик.
type Leader interface {
	TryLead(ctx context.Context) (bool, error)
}

// alwaysLeader — единственный экземпляр всегда лидер.
type alwaysLeader struct{}

func (alwaysLeader) TryLead(context.Context) (bool, error) { return true, nil }

// ErrNotLeader — тик пропущен, лидер другой экземпляр.
var ErrNotLeader = errors.New("not the leader")

// Scheduler — планировщик снимков списков участников.
type Scheduler struct {
	source    SnapshotSource
	publisher SnapshotPublisher
	leader    Leader
	schedule  cron.Schedule
	location  *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Source SnapshotSource

	// Publisher (опционально; без него снимок только пишется в метрики)
	Publisher SnapshotPublisher

	// Leader (опционально; если nil — экземпляр всегда лидер)
	Leader Leader

	CronExpr string
	Timezone string
	Logger   *slog.Logger
}

// New создаёт новый Scheduler. Ошибка — только для невалидного cron.
func New(cfg Config) (*Scheduler, error) {
	schedule, err := ParseCron(cfg.CronExpr)
	if err != nil {
		return nil, err
	}

	leader := cfg.Leader
	if leader == nil {
		leader = alwaysLeader{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		source:    cfg.Source,
		publisher: cfg.Publisher,
		leader:    leader,
		schedule:  schedule,
		location:  LoadLocation(cfg.Timezone),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// NextDue возвращает время следующего снимка после from.
func (s *Scheduler) NextDue(from time.Time) time.Time {
	return CalculateNextDue(s.schedule, from, s.location)
}

// Run ждёт очередного времени по cron и вызывает Tick.
// Ошибка тика не останавливает цикл. Возвращается при отмене ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.NextDue(s.now())
		s.logger.Debug("next snapshot scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.Tick(ctx); err != nil {
			if errors.Is(err, ErrNotLeader) {
				s.logger.Debug("not the leader, tick skipped")
				continue
			}
			s.logger.Error("snapshot tick failed", "error", err)
		}
	}
}

// Tick выполняет один снимок.
//
// 1. Проверяет лидерство
// 2. Загружает все списки
// 3. Обновляет gauge размера списков
// 4. Публикует roster.snapshot (если publisher настроен)
func (s *Scheduler) Tick(ctx context.Context) error {
	lead, err := s.leader.TryLead(ctx)
	if err != nil {
		telemetry.SnapshotTicks.WithLabelValues(telemetry.ResultError).Inc()
		return fmt.Errorf("leader election: %w", err)
	}
	if !lead {
		telemetry.SnapshotTicks.WithLabelValues(telemetry.ResultSkipped).Inc()
		return ErrNotLeader
	}

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		telemetry.SnapshotTicks.WithLabelValues(telemetry.ResultError).Inc()
		return fmt.Errorf("load snapshot: %w", err)
	}

	total := 0
	for _, a := range snapshot.Activities {
		telemetry.RosterSize.WithLabelValues(a.Name).Set(float64(len(a.Participants)))
		total += len(a.Participants)
	}

	if s.publisher != nil {
		err := s.publisher.PublishRosterSnapshot(ctx, snapshot.TakenAt, snapshot.Activities)
		if err != nil {
			telemetry.EventsPublished.WithLabelValues(string(mq.MessageTypeRosterSnapshot), telemetry.ResultError).Inc()
			telemetry.SnapshotTicks.WithLabelValues(telemetry.ResultError).Inc()
			return fmt.Errorf("publish snapshot: %w", err)
		}
		telemetry.EventsPublished.WithLabelValues(string(mq.MessageTypeRosterSnapshot), telemetry.ResultOK).Inc()
	}

	telemetry.SnapshotTicks.WithLabelValues(telemetry.ResultOK).Inc()
	s.logger.Info("snapshot tick completed",
		"activities", len(snapshot.Activities),
		"participants", total,
		"taken_at", snapshot.TakenAt,
	)

	return nil
}
