package update_specialist_schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type CalendarService interface {
	UpdateSchedule(ctx context.Context, specialistID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
