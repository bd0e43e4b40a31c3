package notifier

import (
	"context"
	"log/slog"
)

// Kind — вид уведомления.
type Kind string

const (
	KindWelcome Kind = "welcome"
	KindRemoval Kind = "removal"
)

// Notification — уведомление участнику.
type Notification struct {
	Kind     Kind   `json:"kind"`
	To       string `json:"to"`
	Activity string `json:"activity"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Sender доставляет уведомления.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender пишет уведомления в структурированный лог вместо почты.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender создаёт LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send реализует Sender.
func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification",
		"kind", n.Kind,
		"to", n.To,
		"activity", n.Activity,
		"subject", n.Subject,
		"body", n.Body,
	)
	return nil
}
