package reschedule_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_appointment"
)

type RescheduleAppointmentUseCase interface {
	Execute(ctx context.Context, req *rescheduleAppointment.Request) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
