package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetOccupying(ctx context.Context, date time.Time, specialistID *int64) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс справочника мастеров и услуг
type CatalogRepository interface {
	GetSpecialistByID(ctx context.Context, id int64) (*domain.Specialist, error)
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier рассылка событий о записях
type Notifier interface {
	Notify(ctx context.Context, eventType string, a *domain.Appointment)
}

// Metrics доменные счётчики
type Metrics interface {
	IncAppointmentsCreated()
	IncSlotConflict(operation string)
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
