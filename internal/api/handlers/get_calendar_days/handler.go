package get_calendar_days

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
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

// Handle GET /api/v1/calendar/days
// Публичный endpoint. При пустой базе возвращает и сохраняет набор по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetDays(r.Context())
	if err != nil {
		h.logger.Error("GET /calendar/days - Failed to get day configurations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar/days - Day configurations retrieved: count=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
