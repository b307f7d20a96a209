package update_day_config

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type CalendarService interface {
	UpsertDay(ctx context.Context, weekday time.Weekday, req *models.UpsertDayRequest) (*models.DayConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
