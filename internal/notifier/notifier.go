package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Mergington/internal/mq"
)

const defaultPrefetch = 5

// Notifier превращает события списков в уведомления участникам.
//
// Потребляет две очереди:
//   - rosters.notifications — записи и удаления участников
//   - rosters.snapshots     — периодические снимки от scheduler
//
// Несколько экземпляров могут потреблять из одних очередей.
type Notifier struct {
	conn   *mq.Connection
	sender Sender
	logger *slog.Logger

	consumers  []*mq.Consumer
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Notifier.
type Config struct {
	Conn *mq.Connection

	// Sender (опционально; если nil — LogSender)
	Sender Sender

	Logger *slog.Logger
}

// New создаёт новый Notifier.
func New(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sender := cfg.Sender
	if sender == nil {
		sender = NewLogSender(logger)
	}

	return &Notifier{
		conn:   cfg.Conn,
		sender: sender,
		logger: logger,
	}
}

// Start запускает consumers. Не блокируется.
func (n *Notifier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	n.cancelFunc = cancel

	for _, queue := range []mq.Queue{mq.QueueNotifications, mq.QueueSnapshots} {
		consumer := mq.NewConsumer(n.conn, n.logger, mq.ConsumerConfig{
			Queue:    queue,
			Handler:  n.Handle,
			Prefetch: defaultPrefetch,
		})
		n.consumers = append(n.consumers, consumer)

		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				n.logger.Error("consumer error", "queue", queue, "error", err)
			}
		}()
	}

	n.logger.Info("notifier started")
	return nil
}

// Stop останавливает consumers и ждёт их завершения.
func (n *Notifier) Stop() {
	n.logger.Info("stopping notifier...")

	if n.cancelFunc != nil {
		n.cancelFunc()
	}
	for _, c := range n.consumers {
		c.Stop()
	}

	n.wg.Wait()
	n.logger.Info("notifier stopped")
}
