// Package notifier рассылает события о записях по всем каналам после успешной записи в БД.
// Ошибки доставки логируются и не возвращаются вызывающему коду.
package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/realtime"
)

const (
	channelRealtime = "realtime"
	channelEventBus = "eventbus"
)

// Notifier рассылает события асинхронно, не задерживая ответ на запрос
type Notifier struct {
	realtime RealtimePublisher
	producer EventProducer // nil = шина выключена
	metrics  Metrics
	logger   Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

// New создает notifier. producer может быть nil.
func New(rt RealtimePublisher, producer EventProducer, metrics Metrics, logger Logger) *Notifier {
	return &Notifier{
		realtime: rt,
		producer: producer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Notify публикует событие eventType о записи a
func (n *Notifier) Notify(ctx context.Context, eventType string, a *domain.Appointment) {
	occurredAt := n.now()
	snapshot := *a

	// Контекст запроса отменится после ответа, а доставка должна продолжиться
	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(detached, eventType, &snapshot, occurredAt)
	}()
}

// Wait дожидается завершения всех начатых рассылок
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, eventType string, a *domain.Appointment, occurredAt time.Time) {
	busEvent := toBusEvent(eventType, a, occurredAt)

	if n.realtime != nil {
		data, _ := json.Marshal(busEvent)
		event := realtime.Event{
			Type:          eventType,
			AppointmentID: a.ID,
			SpecialistID:  a.SpecialistID,
			Date:          busEvent.Date,
			Timestamp:     occurredAt,
			Data:          data,
		}
		if err := n.realtime.Publish(ctx, event); err != nil {
			n.drop(channelRealtime, eventType, a.ID, err)
		}
	}

	if n.producer != nil {
		if err := n.producer.Publish(ctx, busEvent); err != nil {
			n.drop(channelEventBus, eventType, a.ID, err)
		}
	}
}

func (n *Notifier) drop(channel, eventType string, appointmentID int64, err error) {
	n.logger.Warn("notifier: %s event %s for appointment_id=%d dropped: %v", channel, eventType, appointmentID, err)
	if n.metrics != nil {
		n.metrics.IncNotificationDropped(channel)
	}
}

func toBusEvent(eventType string, a *domain.Appointment, occurredAt time.Time) eventbus.AppointmentEvent {
	return eventbus.AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		SpecialistID:  a.SpecialistID,
		Date:          a.BookingDate.Format(domain.DateFormat),
		StartTime:     a.StartTime.String(),
		EndTime:       a.EndTime.String(),
		Status:        string(a.Status),
		ClientID:      a.ClientID,
		ClientEmail:   a.ClientEmail,
		Total:         a.Total,
		OccurredAt:    occurredAt,
	}
}
