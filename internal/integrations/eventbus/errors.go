package eventbus

import "errors"

var (
	// ErrProducerClosed возвращается при публикации после Close
	ErrProducerClosed = errors.New("eventbus: producer is closed")

	// ErrInvalidConfig возвращается при пустом списке брокеров или топике
	ErrInvalidConfig = errors.New("eventbus: invalid config")

	// ErrEncode возвращается, когда событие не удалось сериализовать
	ErrEncode = errors.New("eventbus: failed to encode event")

	// ErrWrite возвращается, когда kafka не приняла сообщение
	ErrWrite = errors.New("eventbus: failed to write message")
)
