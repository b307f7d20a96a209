package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if req.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialistId must be positive", ErrInvalidInput)
	}

	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		return err
	}

	if req.Discount < 0 {
		return fmt.Errorf("%w: discount must not be negative", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Client.Name) == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Client.Phone) == "" {
		return fmt.Errorf("%w: client phone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateServiceIDs проверяет список услуг: не пустой, без повторов, не длиннее лимита
func validateServiceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(ids) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services per appointment", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate serviceId %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateNotInPast запрещает запись на прошедшую дату и на прошедшее время сегодня
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	if scheduling.DateInPast(date, now) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date.Format(domain.DateFormat))
	}

	if scheduling.SameDay(date, now) && !start.IsAfter(types.NewTimeString(now)) {
		return fmt.Errorf("%w: startTime %s has already passed", ErrInvalidInput, start)
	}

	return nil
}

// resolveServices возвращает услуги в порядке запроса.
// Отсутствующая или неактивная услуга - ошибка.
func resolveServices(ids []int64, found []domain.Service) ([]domain.AppointmentService, error) {
	byID := make(map[int64]domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	result := make([]domain.AppointmentService, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.Active {
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
		result = append(result, domain.AppointmentService{
			ServiceID:       s.ID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return result, nil
}
