package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис для чтения записей и управления их статусом
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
	now             func() time.Time
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// GetByID получает запись по ID.
// Клиент видит только свои записи, администратор - любые.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, actor.UserID)

	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccess(a) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(a), nil
}

// List получает записи по фильтру.
// Для клиента фильтр всегда ограничен его собственными записями.
func (s *Service) List(ctx context.Context, actor domain.Actor, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if !actor.IsAdmin() {
		userID := actor.UserID
		req.ClientID = &userID
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments for user=%d", len(list), actor.UserID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись. Отменить можно только pending или confirmed.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, actor.UserID)

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.lock(txCtx, actor, id)
		if err != nil {
			return err
		}

		if !a.CanBeCancelled() {
			return fmt.Errorf("%w: cannot cancel appointment in status %s", ErrInvalidState, a.Status)
		}

		cancelledAt := s.now()
		if err := s.appointmentRepo.Cancel(txCtx, id, req.Reason, cancelledAt); err != nil {
			return err
		}

		a.Status = domain.StatusCancelled
		a.CancellationReason = req.Reason
		a.CancelledAt = &cancelledAt
		result = a
		return nil
	})
	if err != nil {
		return nil, s.mapError("Cancel", id, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	s.notifier.Notify(ctx, domain.EventAppointmentCancelled, result)

	return models.FromDomainAppointment(result), nil
}

// UpdateStatus переводит запись в новый статус по машине состояний. Только для администратора.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by user=%d", id, req.Status, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("UpdateStatus: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q", req.Status)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.lock(txCtx, actor, id)
		if err != nil {
			return err
		}

		if !a.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, a.Status, next)
		}

		if next == domain.StatusCancelled {
			cancelledAt := s.now()
			if err := s.appointmentRepo.Cancel(txCtx, id, nil, cancelledAt); err != nil {
				return err
			}
			a.CancelledAt = &cancelledAt
		} else if err := s.appointmentRepo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}

		a.Status = next
		result = a
		return nil
	})
	if err != nil {
		return nil, s.mapError("UpdateStatus", id, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)

	event := domain.EventAppointmentUpdated
	if next == domain.StatusCancelled {
		event = domain.EventAppointmentCancelled
	}
	s.notifier.Notify(ctx, event, result)

	return models.FromDomainAppointment(result), nil
}

// lock читает запись с блокировкой и проверяет доступ
func (s *Service) lock(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if !actor.CanAccess(a) {
		return nil, ErrAccessDenied
	}

	return a, nil
}

func (s *Service) mapError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrInvalidState), errors.Is(err, ErrInvalidInput):
		s.logger.Warn("%s: appointment id=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
