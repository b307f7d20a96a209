package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetOccupying записи на дату, занимающие время; specialistID == nil - по всем мастерам
	GetOccupying(ctx context.Context, date time.Time, specialistID *int64) ([]*domain.Appointment, error)
}

// CalendarService источник расписания салона и мастеров
type CalendarService interface {
	DayConfiguration(ctx context.Context, weekday time.Weekday) (*domain.DayConfiguration, error)
	SpecialistSchedule(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
