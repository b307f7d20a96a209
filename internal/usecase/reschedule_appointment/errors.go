package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrSpecialistNotFound возвращается, когда новый мастер не найден или неактивен
	ErrSpecialistNotFound = errors.New("reschedule_appointment: specialist not found")

	// ErrInvalidState возвращается, когда запись в статусе, из которого перенос запрещён
	ErrInvalidState = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrForbidden возвращается, когда клиент переносит чужую запись
	ErrForbidden = errors.New("reschedule_appointment: access denied")

	// ErrSlotUnavailable возвращается, когда новое время мастера уже занято
	ErrSlotUnavailable = errors.New("reschedule_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
