package send_reminders

import "errors"

var (
	// ErrInternal возвращается, когда не удалось получить список записей
	ErrInternal = errors.New("send_reminders: internal error")
)
