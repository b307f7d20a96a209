package notifier

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/realtime"
)

// RealtimePublisher рассылка событий WebSocket-клиентам
type RealtimePublisher interface {
	Publish(ctx context.Context, event realtime.Event) error
}

// EventProducer публикация событий во внешнюю шину
type EventProducer interface {
	Publish(ctx context.Context, event eventbus.AppointmentEvent) error
}

// Metrics счётчик потерянных уведомлений
type Metrics interface {
	IncNotificationDropped(channel string)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
