package update_day_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
)

const (
	msgInvalidWeekday     = "некорректный день недели, ожидается 0..6 (0 - воскресенье)"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidConfig      = "некорректная конфигурация дня: "
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/calendar/days/{weekday}
// Только для администратора (middleware.RequireAdmin)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weekday, err := handlers.PathWeekday(r, "weekday")
	if err != nil {
		h.logger.Warn("PUT /calendar/days/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req UpsertDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /calendar/days/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /calendar/days/{weekday} - Validation failed: weekday=%d, error=%v", weekday, err)
		handlers.RespondBadRequest(w, msgInvalidConfig+err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /calendar/days/{weekday} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConfig+err.Error())
		return
	}

	result, err := h.service.UpsertDay(r.Context(), weekday, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /calendar/days/{weekday} - Invalid configuration: weekday=%d, error=%v", weekday, err)
			handlers.RespondBadRequest(w, msgInvalidConfig+err.Error())

		default:
			h.logger.Error("PUT /calendar/days/{weekday} - Failed to save configuration: weekday=%d, error=%v", weekday, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /calendar/days/{weekday} - Configuration saved: weekday=%d, active=%t", weekday, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
