package get_calendar_days

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type CalendarService interface {
	GetDays(ctx context.Context) (*models.DayConfigListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
