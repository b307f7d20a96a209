package domain

// Default day configuration
const (
	DefaultOpenTime        = "09:00"
	DefaultCloseTime       = "18:00"
	DefaultLunchStart      = "12:00"
	DefaultLunchEnd        = "13:00"
	DefaultIntervalMinutes = 30
	DefaultCapacityPerSlot = 3
)

// Specialist-scoped slot generation uses a fixed step and exclusive capacity
const (
	SpecialistStepMinutes = 30
	SpecialistCapacity    = 1
)

// Business validation constants
const (
	DaysInWeek                  = 7
	MinIntervalMinutes          = 5
	MaxIntervalMinutes          = 240
	MinCapacityPerSlot          = 1
	MaxCapacityPerSlot          = 50
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 720
	MaxServicesPerAppointment   = 10
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Event names published after appointment mutations
const (
	EventNewAppointment         = "newAppointment"
	EventAppointmentUpdated     = "appointmentUpdated"
	EventAppointmentCancelled   = "appointmentCancelled"
	EventAppointmentRescheduled = "appointmentRescheduled"
)

// ReminderStatuses статусы записей, по которым отправляются напоминания
var ReminderStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
