// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (roster service, static files, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, metrics, recovery)
//   - response.go         — JSON-ответы и сопоставление ошибок со статусами
//   - dto.go              — ответы для занятий
//   - activity_handler.go — обработчики для /activities
//   - static.go           — страница и встроенные ассеты
//
// Ошибки отдаются как {"detail": "...", "code": "..."}.
package api
