package update_specialist_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
)

const (
	msgInvalidSpecialistID = "некорректный ID мастера"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidSchedule     = "некорректный график: "
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

// Handle PUT /api/v1/specialists/{specialistId}/schedule
// Полностью заменяет график. Только для администратора.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	specialistID, err := handlers.PathInt64(r, "specialistId")
	if err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Validation failed: specialist_id=%d, error=%v", specialistID, err)
		handlers.RespondBadRequest(w, msgInvalidSchedule+err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule+err.Error())
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), specialistID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrSpecialistNotFound):
			h.logger.Warn("PUT /specialists/{id}/schedule - Specialist not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /specialists/{id}/schedule - Invalid schedule: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule+err.Error())

		default:
			h.logger.Error("PUT /specialists/{id}/schedule - Failed to update schedule: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /specialists/{id}/schedule - Schedule updated: specialist_id=%d", specialistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
