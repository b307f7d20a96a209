package calendar

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// DayStore хранилище конфигураций дней (репозиторий или кэш поверх него)
type DayStore interface {
	GetAllDays(ctx context.Context) ([]domain.DayConfiguration, error)
	UpsertDay(ctx context.Context, cfg *domain.DayConfiguration) error
}

// ScheduleRepository интерфейс репозитория графиков мастеров
type ScheduleRepository interface {
	GetSpecialistSchedule(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error)
	ReplaceSpecialistSchedule(ctx context.Context, schedule *domain.SpecialistSchedule) error
}

// SpecialistRepository интерфейс справочника мастеров
type SpecialistRepository interface {
	GetSpecialistByID(ctx context.Context, id int64) (*domain.Specialist, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

