package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaiso/Mergington/internal/domain"
	"github.com/shaiso/Mergington/internal/repo"
)

// ErrorCode — код ошибки API.
type ErrorCode string

const (
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeValidationError ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgActivityNotFound    = "Activity not found"
	MsgParticipantNotFound = "Participant not found in this activity"
	MsgAlreadySignedUp     = "Already signed up for this activity"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Detail string    `json:"detail"`
	Code   ErrorCode `json:"code"`
}

// MessageResponse — тело ответа на изменение списка.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON отправляет JSON ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Success отправляет 200 с данными как есть.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Message отправляет 200 с текстовым сообщением.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageResponse{Message: message})
}

// Error отправляет ответ с ошибкой.
func Error(w http.ResponseWriter, status int, code ErrorCode, detail string) {
	JSON(w, status, ErrorResponse{Detail: detail, Code: code})
}

// BadRequest отправляет ошибку 400.
func BadRequest(w http.ResponseWriter, detail string) {
	Error(w, http.StatusBadRequest, ErrCodeBadRequest, detail)
}

// NotFound отправляет ошибку 404.
func NotFound(w http.ResponseWriter, detail string) {
	Error(w, http.StatusNotFound, ErrCodeNotFound, detail)
}

// ValidationError отправляет ошибку 422.
func ValidationError(w http.ResponseWriter, detail string) {
	Error(w, http.StatusUnprocessableEntity, ErrCodeValidationError, detail)
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// HandleRepoError преобразует ошибку хранилища или валидации в HTTP ответ.
// Возвращает false, если ошибки нет.
func HandleRepoError(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, domain.ErrEmailRequired), errors.Is(err, domain.ErrEmailInvalid):
		ValidationError(w, err.Error())
	case errors.Is(err, repo.ErrParticipantNotFound):
		NotFound(w, MsgParticipantNotFound)
	case errors.Is(err, repo.ErrNotFound):
		NotFound(w, MsgActivityNotFound)
	case errors.Is(err, repo.ErrAlreadyExists):
		BadRequest(w, MsgAlreadySignedUp)
	default:
		InternalError(w, logger, err)
	}
	return true
}
