package get_specialist_schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type CalendarService interface {
	GetSchedule(ctx context.Context, specialistID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
