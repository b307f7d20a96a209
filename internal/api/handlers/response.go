package handlers

import (
	"encoding/json"
	"net/http"
)

// Причины ошибок в теле ответа. Клиенты ориентируются на reason, message - для человека.
const (
	ReasonInvalidInput    = "InvalidInput"
	ReasonNotFound        = "NotFound"
	ReasonSlotUnavailable = "SlotUnavailable"
	ReasonInvalidState    = "InvalidState"
	ReasonForbidden       = "Forbidden"
	ReasonUnauthorized    = "Unauthorized"
	ReasonTooManyRequests = "TooManyRequests"
	ReasonInternal        = "Internal"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// RespondJSON пишет data в ответ со статусом status
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с причиной reason
func RespondError(w http.ResponseWriter, status int, reason, message string) {
	RespondJSON(w, status, ErrorResponse{Reason: reason, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, ReasonInvalidInput, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, ReasonNotFound, message)
}

// RespondSlotUnavailable 409: время у мастера уже занято
func RespondSlotUnavailable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, ReasonSlotUnavailable, message)
}

// RespondInvalidState 409: операция недопустима в текущем статусе записи
func RespondInvalidState(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, ReasonInvalidState, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, ReasonForbidden, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, ReasonUnauthorized, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, ReasonTooManyRequests, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, ReasonInternal, msgInternalError)
}
