package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/realtime"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeRealtime struct {
	mu     sync.Mutex
	events []realtime.Event
	err    error
}

func (f *fakeRealtime) Publish(_ context.Context, e realtime.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

type fakeProducer struct {
	mu     sync.Mutex
	events []eventbus.AppointmentEvent
	err    error
}

func (f *fakeProducer) Publish(_ context.Context, e eventbus.AppointmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

type fakeMetrics struct {
	mu      sync.Mutex
	dropped map[string]int
}

func (m *fakeMetrics) IncNotificationDropped(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropped == nil {
		m.dropped = make(map[string]int)
	}
	m.dropped[channel]++
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:           9,
		SpecialistID: 4,
		BookingDate:  time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:    types.MustTimeString("10:00"),
		EndTime:      types.MustTimeString("11:00"),
		Status:       domain.StatusPending,
		Total:        40,
	}
}

func TestNotifier_FansOut(t *testing.T) {
	rt := &fakeRealtime{}
	bus := &fakeProducer{}
	n := New(rt, bus, &fakeMetrics{}, logger.NewNop())

	n.Notify(context.Background(), domain.EventNewAppointment, testAppointment())
	n.Wait()

	require.Len(t, rt.events, 1)
	assert.Equal(t, domain.EventNewAppointment, rt.events[0].Type)
	assert.Equal(t, int64(4), rt.events[0].SpecialistID)
	assert.Equal(t, "2030-06-03", rt.events[0].Date)
	assert.NotEmpty(t, rt.events[0].Data)

	require.Len(t, bus.events, 1)
	assert.Equal(t, "10:00", bus.events[0].StartTime)
	assert.Equal(t, "11:00", bus.events[0].EndTime)
	assert.Equal(t, "pending", bus.events[0].Status)
}

func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	rt := &fakeRealtime{err: errors.New("hub down")}
	bus := &fakeProducer{err: errors.New("broker down")}
	m := &fakeMetrics{}
	n := New(rt, bus, m, logger.NewNop())

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), domain.EventAppointmentCancelled, testAppointment())
		n.Wait()
	})

	assert.Equal(t, 1, m.dropped[channelRealtime])
	assert.Equal(t, 1, m.dropped[channelEventBus])
}

func TestNotifier_SurvivesCancelledRequestContext(t *testing.T) {
	bus := &fakeProducer{}
	n := New(&fakeRealtime{}, bus, nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, domain.EventAppointmentRescheduled, testAppointment())
	cancel()
	n.Wait()

	assert.Len(t, bus.events, 1)
}

func TestNotifier_SnapshotIsolation(t *testing.T) {
	bus := &fakeProducer{}
	n := New(nil, bus, nil, logger.NewNop())

	a := testAppointment()
	n.Notify(context.Background(), domain.EventAppointmentUpdated, a)
	a.Status = domain.StatusCancelled
	n.Wait()

	require.Len(t, bus.events, 1)
	assert.Equal(t, "pending", bus.events[0].Status)
}
