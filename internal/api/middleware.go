package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/shaiso/Mergington/internal/telemetry"
)

// Middleware — функция-обёртка для http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain применяет middleware в порядке слева направо.
// Chain(m1, m2)(handler) = m1(m2(handler))
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Logging логирует HTTP запросы и кладёт логгер запроса в контекст.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			reqLogger := logger.With("method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(rw, r.WithContext(telemetry.WithLogger(r.Context(), reqLogger)))

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration", time.Since(start),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// Metrics считает запросы и их длительность.
// Label route — шаблон маршрута из ServeMux, чтобы имена занятий
// не раздували кардинальность.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			telemetry.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
			telemetry.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Recovery восстанавливается после паники.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"stack", string(debug.Stack()),
						"path", r.URL.Path,
					)
					InternalError(w, logger, fmt.Errorf("panic: %v", rec))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter — обёртка для захвата статуса ответа.
type responseWriter struct {
	http.ResponseWriter
	status int
}

// wrap не оборачивает повторно уже обёрнутый writer.
func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
