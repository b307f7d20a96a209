package get_available_slots

import (
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// SlotsQuery query параметры запроса
type SlotsQuery struct {
	Date            string `json:"date" validate:"required,isodate"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=720"`
	SpecialistID    *int64 `json:"specialistId"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	SpecialistID    *int64          `json:"specialistId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Open            bool            `json:"open"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Status         string `json:"status"`
	AvailableCount int    `json:"availableCount"`
	Capacity       int    `json:"capacity"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func (q *SlotsQuery) ToUseCaseRequest() (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(q.Date)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:            date,
		DurationMinutes: q.DurationMinutes,
		SpecialistID:    q.SpecialistID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Status:         string(slot.Status),
			AvailableCount: slot.AvailableCount,
			Capacity:       slot.Capacity,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		SpecialistID:    resp.SpecialistID,
		DurationMinutes: resp.DurationMinutes,
		Open:            resp.Open,
		Slots:           slots,
	}
}
