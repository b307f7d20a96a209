package notifyservice

import "errors"

var (
	// ErrRecipientNotFound возвращается, когда у клиента нет контакта для отправки
	ErrRecipientNotFound = errors.New("notifyservice client: recipient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")
)
