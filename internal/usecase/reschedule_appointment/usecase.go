package reschedule_appointment

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

const metricsOperation = "reschedule"

// UseCase use case для переноса записи на другое время или к другому мастеру
type UseCase struct {
	appointmentRepo AppointmentRepository
	specialistRepo  SpecialistRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	specialistRepo SpecialistRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		specialistRepo:  specialistRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет перенос. При конфликте запись остаётся нетронутой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, date=%s, time=%s, by user=%d",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.Actor.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Перенос в прошлое запрещён
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: %v", err)
		return nil, err
	}

	// 3. Новый мастер должен существовать
	var newSpecialist *domain.Specialist
	if req.SpecialistID != nil {
		specialist, err := uc.specialistRepo.GetSpecialistByID(ctx, *req.SpecialistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrSpecialistNotFound) {
				uc.logger.Warn("RescheduleAppointment: specialist id=%d not found", *req.SpecialistID)
				return nil, ErrSpecialistNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get specialist id=%d: %v", *req.SpecialistID, err)
			return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
		}
		if !specialist.Active {
			uc.logger.Warn("RescheduleAppointment: specialist id=%d is inactive", *req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		newSpecialist = specialist
	}

	var result *domain.Appointment

	// 4. Чтение, проверка и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем запись (FOR UPDATE)
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			if errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				return err
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if !req.Actor.CanAccess(current) {
			return ErrForbidden
		}

		// 4.2. Переносить можно только pending и confirmed
		if !current.CanBeRescheduled() {
			return fmt.Errorf("%w: status is %s", ErrInvalidState, current.Status)
		}

		// 4.3. Собираем новую версию записи, исходная не меняется до успешной проверки
		moved, err := applyMove(current, req, newSpecialist)
		if err != nil {
			return err
		}

		// 4.4. Перечитываем записи нового мастера на новую дату и проверяем пересечение, исключая саму запись
		existing, err := uc.appointmentRepo.GetOccupying(txCtx, moved.BookingDate, &moved.SpecialistID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				return err
			}
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		candidate := scheduling.Candidate{
			SpecialistID: moved.SpecialistID,
			Date:         moved.BookingDate,
			Start:        moved.StartTime,
			End:          moved.EndTime,
			ExcludeID:    moved.ID,
		}
		if conflict := scheduling.FindConflict(candidate, existing); conflict != nil {
			uc.logger.Warn("RescheduleAppointment: %s-%s overlaps appointment id=%d (%s-%s)",
				candidate.Start, candidate.End, conflict.ID, conflict.StartTime, conflict.EndTime)
			return ErrSlotUnavailable
		}

		// 4.5. Сохраняем
		if err := uc.appointmentRepo.UpdateSchedule(txCtx, moved); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		result = moved
		return nil
	})

	if err != nil {
		return nil, uc.mapError(req.AppointmentID, err)
	}

	uc.metrics.IncAppointmentsRescheduled()
	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s-%s, specialist=%d",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime, result.EndTime, result.SpecialistID)

	// 5. Уведомление после коммита
	uc.notifier.Notify(ctx, domain.EventAppointmentRescheduled, result)

	return result, nil
}

// applyMove возвращает копию записи с новыми датой, временем и мастером, статус сбрасывается в pending
func applyMove(current *domain.Appointment, req *Request, specialist *domain.Specialist) (*domain.Appointment, error) {
	moved := *current
	moved.BookingDate = dateOnly(req.Date)
	moved.StartTime = req.StartTime
	moved.Status = domain.StatusPending

	if specialist != nil {
		moved.SpecialistID = specialist.ID
		moved.SpecialistName = specialist.Name
	}

	// Время окончания всегда выводится из услуг
	if err := moved.RecalculateTotals(); err != nil {
		return nil, fmt.Errorf("%w: appointment must end by midnight: %v", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() && !req.EndTime.Equal(moved.EndTime) {
		return nil, fmt.Errorf("%w: endTime %s does not match services duration (expected %s)",
			ErrInvalidInput, req.EndTime, moved.EndTime)
	}

	return &moved, nil
}

func (uc *UseCase) mapError(id int64, err error) error {
	switch {
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, appointmentRepo.ErrSlotTaken),
		errors.Is(err, appointmentRepo.ErrConcurrentUpdate),
		errors.Is(err, txmanager.ErrSerializationFailure):
		uc.metrics.IncSlotConflict(metricsOperation)
		uc.logger.Warn("RescheduleAppointment: slot is taken for appointment id=%d: %v", id, err)
		return ErrSlotUnavailable
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("RescheduleAppointment: appointment id=%d: %v", id, err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("RescheduleAppointment: appointment id=%d: %v", id, err)
		return err
	default:
		uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
