package create_appointment

import "errors"

var (
	// ErrSpecialistNotFound возвращается, когда мастер не найден или неактивен
	ErrSpecialistNotFound = errors.New("create_appointment: specialist not found")

	// ErrServiceNotFound возвращается, когда хотя бы одна услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrSlotUnavailable возвращается, когда время мастера уже занято
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
