package api

import (
	"net/http"

	"github.com/shaiso/Mergington/internal/telemetry"
)

// ListActivities возвращает все занятия.
// GET /activities
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.roster.ListActivities(r.Context())
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err) {
		return
	}

	Success(w, ActivitiesResponse(activities))
}

// GetActivity возвращает одно занятие.
// GET /activities/{name}
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.roster.GetActivity(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err) {
		return
	}

	Success(w, ActivityFromDomain(*activity))
}

// SignUp записывает студента на занятие.
// POST /activities/{name}/signup?email=
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	msg, err := h.roster.SignUp(r.Context(), r.PathValue("name"), r.URL.Query().Get("email"))
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err) {
		return
	}

	Message(w, msg)
}

// RemoveParticipant удаляет студента из занятия.
// DELETE /activities/{name}/remove?email=
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	msg, err := h.roster.Remove(r.Context(), r.PathValue("name"), r.URL.Query().Get("email"))
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err) {
		return
	}

	Message(w, msg)
}
