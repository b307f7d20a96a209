package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() && !req.EndTime.IsAfter(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.SpecialistID != nil && *req.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialistId must be positive", ErrInvalidInput)
	}

	return nil
}

// validateNotInPast запрещает перенос на прошедшую дату и на прошедшее время сегодня
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	if scheduling.DateInPast(date, now) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date.Format(domain.DateFormat))
	}

	if scheduling.SameDay(date, now) && !start.IsAfter(types.NewTimeString(now)) {
		return fmt.Errorf("%w: startTime %s has already passed", ErrInvalidInput, start)
	}

	return nil
}
