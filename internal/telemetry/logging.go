package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel определяет уровень логирования из переменной окружения.
// Возможные значения: DEBUG, INFO, WARN, ERROR
// По умолчанию: INFO
func LogLevel() slog.Level {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger инициализирует глобальный логгер.
//
// Формат вывода определяется переменной LOG_FORMAT:
//   - "json" (по умолчанию) — JSON формат для production
//   - "text" — человекочитаемый формат для разработки
func SetupLogger() *slog.Logger {
	logger := NewLogger(os.Stdout, os.Getenv("LOG_FORMAT"))
	slog.SetDefault(logger)
	return logger
}

// NewLogger создаёт логгер, пишущий в w в формате format ("json" или "text").
func NewLogger(w io.Writer, format string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     LogLevel(),
		AddSource: LogLevel() == slog.LevelDebug,
	}

	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard возвращает логгер, который ничего не пишет. Удобен в тестах.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Ключи контекста для передачи данных в логгер.
type ctxKey string

const (
	// CtxLogger — ключ для логгера в контексте.
	CtxLogger ctxKey = "logger"
)

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, CtxLogger, logger)
}

// FromContext извлекает логгер из контекста.
// Если логгер не найден, возвращает глобальный.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithActivity возвращает логгер с добавленным именем занятия.
func WithActivity(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("activity", name)
}

// WithMessageID возвращает логгер с добавленным message_id.
func WithMessageID(logger *slog.Logger, messageID string) *slog.Logger {
	return logger.With("message_id", messageID)
}
