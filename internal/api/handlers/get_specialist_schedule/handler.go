package get_specialist_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
)

const (
	msgInvalidSpecialistID = "некорректный ID мастера"
	msgSpecialistNotFound  = "мастер не найден"
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

// Handle GET /api/v1/specialists/{specialistId}/schedule
// Всегда семь дней, воскресенье первым
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	specialistID, err := handlers.PathInt64(r, "specialistId")
	if err != nil {
		h.logger.Warn("GET /specialists/{id}/schedule - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), specialistID)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrSpecialistNotFound):
			h.logger.Warn("GET /specialists/{id}/schedule - Specialist not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		default:
			h.logger.Error("GET /specialists/{id}/schedule - Failed to get schedule: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /specialists/{id}/schedule - Schedule retrieved: specialist_id=%d", specialistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
