package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidSpecialistID = "некорректный ID мастера"
	msgInvalidDuration     = "некорректная длительность, ожидается число минут"
	msgInvalidQuery        = "некорректные параметры запроса: "
	msgSpecialistNotFound  = "мастер не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: date (required, YYYY-MM-DD), durationMinutes (required), specialistId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := SlotsQuery{Date: r.URL.Query().Get("date")}

	if raw := r.URL.Query().Get("durationMinutes"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		query.DurationMinutes = duration
	}

	specialistID, err := handlers.ParseOptionalInt64(r, "specialistId")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}
	query.SpecialistID = specialistID

	if err := handlers.Validate(&query); err != nil {
		h.logger.Warn("GET /slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery+err.Error())
		return
	}

	useCaseReq, err := query.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery+err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSpecialistNotFound):
			h.logger.Warn("GET /slots - Specialist not found: specialist_id=%d", *specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /slots - Failed to get slots: date=%s, error=%v", query.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Slots retrieved: date=%s, open=%t, slots_count=%d",
		query.Date, result.Open, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
