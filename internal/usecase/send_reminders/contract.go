package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetDueForReminder(ctx context.Context, from, to time.Time, limit int) ([]*domain.Appointment, error)
	ClaimReminder(ctx context.Context, id int64, at time.Time) (bool, error)
	ReleaseReminder(ctx context.Context, id int64) error
}

// NotificationClient интерфейс клиента сервиса уведомлений
type NotificationClient interface {
	SendReminder(ctx context.Context, reminder notifyservice.Reminder) error
}

// Metrics счётчик напоминаний по результату
type Metrics interface {
	IncReminder(result string)
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
