package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const metricsOperation = "create"

// UseCase use case для создания записи к мастеру
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений повторяется в сериализуемой транзакции непосредственно перед вставкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: specialist=%d, date=%s, time=%s, services=%v",
		req.SpecialistID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись в прошлое запрещена
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 3. Получаем мастера
	specialist, err := uc.catalogRepo.GetSpecialistByID(ctx, req.SpecialistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSpecialistNotFound) {
			uc.logger.Warn("CreateAppointment: specialist id=%d not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get specialist id=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if !specialist.Active {
		uc.logger.Warn("CreateAppointment: specialist id=%d is inactive", req.SpecialistID)
		return nil, ErrSpecialistNotFound
	}

	// 4. Получаем услуги в порядке запроса
	found, err := uc.catalogRepo.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	services, err := resolveServices(req.ServiceIDs, found)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 5. Считаем длительность, время окончания и суммы
	appointment := &domain.Appointment{
		BookingDate:    dateOnly(req.Date),
		StartTime:      req.StartTime,
		SpecialistID:   req.SpecialistID,
		Status:         domain.StatusPending,
		Services:       services,
		Discount:       req.Discount,
		ClientID:       req.Client.ID,
		ClientName:     req.Client.Name,
		ClientPhone:    req.Client.Phone,
		ClientEmail:    req.Client.Email,
		Notes:          req.Notes,
		SpecialistName: specialist.Name,
	}

	if err := appointment.RecalculateTotals(); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, fmt.Errorf("%w: appointment must end by midnight: %v", ErrInvalidInput, err)
	}

	if appointment.Discount > appointment.Subtotal {
		uc.logger.Warn("CreateAppointment: discount %.2f exceeds subtotal %.2f", appointment.Discount, appointment.Subtotal)
		return nil, fmt.Errorf("%w: discount exceeds subtotal", ErrInvalidInput)
	}

	var result *domain.Appointment

	// 6. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем записи мастера на дату с блокировкой (FOR UPDATE)
		existing, err := uc.appointmentRepo.GetOccupying(txCtx, appointment.BookingDate, &appointment.SpecialistID)
		if err != nil {
			if isSlotConflict(err) {
				return err
			}
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.2. Проверяем пересечение
		candidate := scheduling.Candidate{
			SpecialistID: appointment.SpecialistID,
			Date:         appointment.BookingDate,
			Start:        appointment.StartTime,
			End:          appointment.EndTime,
		}
		if conflict := scheduling.FindConflict(candidate, existing); conflict != nil {
			uc.logger.Warn("CreateAppointment: %s-%s overlaps appointment id=%d (%s-%s)",
				candidate.Start, candidate.End, conflict.ID, conflict.StartTime, conflict.EndTime)
			return ErrSlotUnavailable
		}

		// 6.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		if isSlotConflict(err) {
			uc.metrics.IncSlotConflict(metricsOperation)
			uc.logger.Warn("CreateAppointment: slot %s %s is taken for specialist=%d: %v",
				appointment.BookingDate.Format(domain.DateFormat), appointment.StartTime, appointment.SpecialistID, err)
			return nil, ErrSlotUnavailable
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateAppointment: %v", err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.metrics.IncAppointmentsCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d (%s-%s)",
		result.ID, result.StartTime, result.EndTime)

	// 7. Уведомление уходит после коммита и не влияет на результат
	uc.notifier.Notify(ctx, domain.EventNewAppointment, result)

	return result, nil
}

// isSlotConflict объединяет все способы, которыми БД сообщает о занятом времени:
// явная проверка, exclusion constraint и конфликт сериализации
func isSlotConflict(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, appointmentRepo.ErrSlotTaken) ||
		errors.Is(err, appointmentRepo.ErrConcurrentUpdate) ||
		errors.Is(err, txmanager.ErrSerializationFailure)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
