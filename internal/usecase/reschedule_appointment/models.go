package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое время начала
	EndTime       types.TimeString // Ожидаемое время окончания (опционально, сверяется с услугами)
	SpecialistID  *int64           // Новый мастер (опционально, по умолчанию текущий)
}
