package send_reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notifyservice"
)

// UseCase проход рассылки напоминаний о предстоящих записях.
// Повторная отправка исключается отметкой reminder_sent_at, которая ставится условным UPDATE до отправки.
type UseCase struct {
	appointmentRepo AppointmentRepository
	client          NotificationClient
	metrics         Metrics
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	client NotificationClient,
	metrics Metrics,
	options Options,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		client:          client,
		metrics:         metrics,
		options:         options,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет один проход
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()
	to := now.Add(uc.options.Lead)

	// 1. Записи, начинающиеся в окне [now, now + lead] без отметки
	due, err := uc.appointmentRepo.GetDueForReminder(ctx, now, to, uc.options.BatchSize)
	if err != nil {
		uc.logger.Error("SendReminders: failed to get due appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get due appointments: %v", ErrInternal, err)
	}

	result := &Result{Found: len(due)}

	for _, a := range due {
		if ctx.Err() != nil {
			break
		}

		switch uc.process(ctx, a, now) {
		case resultSent:
			result.Sent++
		case resultSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	if result.Found > 0 {
		uc.logger.Info("SendReminders: found=%d, sent=%d, skipped=%d, failed=%d",
			result.Found, result.Sent, result.Skipped, result.Failed)
	}

	return result, nil
}

func (uc *UseCase) process(ctx context.Context, a *domain.Appointment, now time.Time) string {
	outcome := uc.deliver(ctx, a, now)
	uc.metrics.IncReminder(outcome)
	return outcome
}

func (uc *UseCase) deliver(ctx context.Context, a *domain.Appointment, now time.Time) string {
	// 2. Забираем запись: только один обработчик увидит rowsAffected = 1
	claimed, err := uc.appointmentRepo.ClaimReminder(ctx, a.ID, now)
	if err != nil {
		uc.logger.Error("SendReminders: failed to claim appointment id=%d: %v", a.ID, err)
		return resultFailed
	}
	if !claimed {
		return resultSkipped
	}

	// 3. Отправляем
	if err := uc.client.SendReminder(ctx, toReminder(a)); err != nil {
		uc.logger.Warn("SendReminders: failed to send reminder for appointment id=%d: %v", a.ID, err)

		// 4. Снимаем отметку, чтобы следующий проход повторил
		if err := uc.appointmentRepo.ReleaseReminder(context.WithoutCancel(ctx), a.ID); err != nil {
			uc.logger.Error("SendReminders: failed to release appointment id=%d: %v", a.ID, err)
		}
		return resultFailed
	}

	return resultSent
}

func toReminder(a *domain.Appointment) notifyservice.Reminder {
	services := make([]string, 0, len(a.Services))
	for _, s := range a.Services {
		services = append(services, s.Name)
	}

	return notifyservice.Reminder{
		AppointmentID:  a.ID,
		ClientID:       a.ClientID,
		ClientName:     a.ClientName,
		ClientPhone:    a.ClientPhone,
		ClientEmail:    a.ClientEmail,
		SpecialistName: a.SpecialistName,
		Date:           a.BookingDate.Format(domain.DateFormat),
		StartTime:      a.StartTime.String(),
		Services:       services,
	}
}
