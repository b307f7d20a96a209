package get_day_config

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgInvalidWeekday = "некорректный день недели, ожидается 0..6 (0 - воскресенье)"

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

// Handle GET /api/v1/calendar/days/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weekday, err := handlers.PathWeekday(r, "weekday")
	if err != nil {
		h.logger.Warn("GET /calendar/days/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	result, err := h.service.GetDay(r.Context(), weekday)
	if err != nil {
		h.logger.Error("GET /calendar/days/{weekday} - Failed to get day configuration: weekday=%d, error=%v", weekday, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar/days/{weekday} - Day configuration retrieved: weekday=%d, active=%t", weekday, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
