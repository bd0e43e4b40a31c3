package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Logging(h.logger),
		Metrics(),
		Recovery(h.logger),
	)

	// Страница
	mux.Handle("GET /{$}", chain(http.HandlerFunc(h.Index)))
	mux.Handle("GET /static/", chain(h.StaticFiles()))

	// Activities
	mux.Handle("GET /activities", chain(http.HandlerFunc(h.ListActivities)))
	mux.Handle("GET /activities/{name}", chain(http.HandlerFunc(h.GetActivity)))
	mux.Handle("POST /activities/{name}/signup", chain(http.HandlerFunc(h.SignUp)))
	mux.Handle("DELETE /activities/{name}/remove", chain(http.HandlerFunc(h.RemoveParticipant)))
}
