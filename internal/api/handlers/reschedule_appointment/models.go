package reschedule_appointment

import (
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// RescheduleRequest HTTP модель запроса на перенос записи.
// endTime необязателен: если передан, должен совпадать с длительностью услуг.
type RescheduleRequest struct {
	Date         string `json:"date" validate:"required,isodate"`
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime,omitempty" validate:"omitempty,hhmm"`
	SpecialistID *int64 `json:"specialistId,omitempty" validate:"omitempty,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	var endTime types.TimeString
	if r.EndTime != "" {
		endTime, err = types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
	}

	return &rescheduleAppointment.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		SpecialistID:  r.SpecialistID,
	}, nil
}
