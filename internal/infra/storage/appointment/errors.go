package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда вставка нарушила exclusion constraint (пересечение у мастера)
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrConcurrentUpdate возвращается при serialization failure внутри транзакции
	ErrConcurrentUpdate = errors.New("appointment.repository: concurrent update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEncodeServices возвращается, когда список услуг не удалось сериализовать
	ErrEncodeServices = errors.New("appointment.repository: failed to encode services")
)
