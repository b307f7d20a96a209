package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	calendarService "github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
)

// UseCase use case для получения слотов на дату.
// Результат носит справочный характер: окончательная проверка выполняется при записи.
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendar        CalendarService
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendar CalendarService,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendar:        calendar,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%d, specialist=%v",
		req.Date.Format(domain.DateFormat), req.DurationMinutes, req.SpecialistID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:            req.Date,
		SpecialistID:    req.SpecialistID,
		DurationMinutes: req.DurationMinutes,
		Slots:           []domain.Slot{},
	}

	// 2. Занятое время на дату
	appointments, err := uc.appointmentRepo.GetOccupying(ctx, req.Date, req.SpecialistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	genReq := scheduling.Request{
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Now:             uc.timeProvider.Now(),
		Appointments:    appointments,
	}

	// 3. Источник расписания: график мастера или календарь салона
	if req.SpecialistID != nil {
		day, err := uc.specialistDay(ctx, *req.SpecialistID, req.Date.Weekday())
		if err != nil {
			return nil, err
		}
		response.Open = day.Works
		response.Slots = scheduling.Generate(scheduling.SpecialistDay{Day: day}, genReq)
	} else {
		cfg, err := uc.calendar.DayConfiguration(ctx, req.Date.Weekday())
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get day configuration: %v", err)
			return nil, fmt.Errorf("%w: failed to get day configuration: %v", ErrInternal, err)
		}
		response.Open = cfg.Active
		response.Slots = scheduling.Generate(scheduling.BusinessDay{Config: *cfg}, genReq)
	}

	uc.logger.Info("GetAvailableSlots: date=%s, open=%t, slots=%d",
		req.Date.Format(domain.DateFormat), response.Open, len(response.Slots))

	return response, nil
}

func (uc *UseCase) specialistDay(ctx context.Context, specialistID int64, weekday time.Weekday) (domain.WorkDay, error) {
	schedule, err := uc.calendar.SpecialistSchedule(ctx, specialistID)
	if err != nil {
		if errors.Is(err, calendarService.ErrSpecialistNotFound) {
			uc.logger.Warn("GetAvailableSlots: specialist id=%d not found", specialistID)
			return domain.WorkDay{}, ErrSpecialistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule for specialist=%d: %v", specialistID, err)
		return domain.WorkDay{}, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	return schedule.Day(weekday), nil
}
