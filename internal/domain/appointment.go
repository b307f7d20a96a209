package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusWaiting    AppointmentStatus = "waiting"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// allowedTransitions is the appointment state machine.
// Statuses without an entry are terminal.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusWaiting:    {StatusPending, StatusConfirmed},
	StatusInProgress: {StatusCompleted},
}

// IsValid returns true if s is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaiting, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves s
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AppointmentService is a service line of an appointment, denormalized at booking time
type AppointmentService struct {
	ServiceID       int64
	Name            string
	Price           float64
	DurationMinutes int
}

// Appointment represents a booked visit of a client to a specialist
type Appointment struct {
	ID           int64
	BookingDate  time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	SpecialistID int64
	Status       AppointmentStatus

	Services             []AppointmentService
	TotalDurationMinutes int
	Subtotal             float64
	Discount             float64
	Total                float64

	// Client data is owned by the auth service; stored denormalized for history
	ClientID    *int64
	ClientName  string
	ClientPhone string
	ClientEmail *string
	Notes       *string

	// Denormalized for notifications
	SpecialistName string

	CancellationReason *string
	CancelledAt        *time.Time
	ReminderSentAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the appointment blocks its time interval for the specialist
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if a client may cancel the appointment
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment may be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// RecalculateTotals derives duration, end time and money totals from Services and StartTime.
// Must be called after every change of Services, StartTime or Discount.
func (a *Appointment) RecalculateTotals() error {
	duration := 0
	subtotal := 0.0
	for _, s := range a.Services {
		duration += s.DurationMinutes
		subtotal += s.Price
	}

	end, err := a.StartTime.AddMinutes(duration)
	if err != nil {
		return fmt.Errorf("appointment end time: %w", err)
	}

	a.TotalDurationMinutes = duration
	a.EndTime = end
	a.Subtotal = subtotal
	a.Total = subtotal - a.Discount
	return nil
}

// StartsAt returns the absolute start moment in the location of BookingDate
func (a *Appointment) StartsAt() time.Time {
	return a.StartTime.On(a.BookingDate)
}

// AppointmentsFilter фильтр для получения списка записей
type AppointmentsFilter struct {
	Date             *time.Time         // Конкретная дата (опционально)
	DateFrom         *time.Time         // Начало периода (опционально)
	DateTo           *time.Time         // Конец периода включительно (опционально)
	SpecialistID     *int64             // Фильтр по мастеру (опционально)
	ClientID         *int64             // Фильтр по клиенту (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые записи
	Limit            int                // 0 = без ограничения
	Offset           int
}
