package api

import (
	"io/fs"
	"log/slog"

	"github.com/shaiso/Mergington/internal/roster"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	roster *roster.Service
	static fs.FS
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Roster *roster.Service

	// Static — файлы страницы. nil — встроенные ассеты.
	Static fs.FS

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	static := cfg.Static
	if static == nil {
		static = EmbeddedStatic()
	}
	return &Handler{
		roster: cfg.Roster,
		static: static,
		logger: cfg.Logger,
	}
}
