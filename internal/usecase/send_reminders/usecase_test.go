package send_reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeAppointments struct {
	due      []*domain.Appointment
	sentAt   map[int64]time.Time
	from, to time.Time
	limit    int
	dueErr   error
}

func (f *fakeAppointments) GetDueForReminder(_ context.Context, from, to time.Time, limit int) ([]*domain.Appointment, error) {
	f.from, f.to, f.limit = from, to, limit
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.due, nil
}

func (f *fakeAppointments) ClaimReminder(_ context.Context, id int64, at time.Time) (bool, error) {
	if _, ok := f.sentAt[id]; ok {
		return false, nil
	}
	f.sentAt[id] = at
	return true, nil
}

func (f *fakeAppointments) ReleaseReminder(_ context.Context, id int64) error {
	delete(f.sentAt, id)
	return nil
}

type fakeClient struct {
	failFor map[int64]bool
	sent    []notifyservice.Reminder
}

func (c *fakeClient) SendReminder(_ context.Context, r notifyservice.Reminder) error {
	if c.failFor[r.AppointmentID] {
		return errors.New("notification service unavailable")
	}
	c.sent = append(c.sent, r)
	return nil
}

type fakeMetrics map[string]int

func (m fakeMetrics) IncReminder(result string) { m[result]++ }

type fixedTime struct {
	now time.Time
}

func (p fixedTime) Now() time.Time {
	return p.now
}

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func due(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:             id,
		BookingDate:    time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		StartTime:      types.MustTimeString("08:30"),
		Status:         domain.StatusConfirmed,
		ClientName:     "Мария",
		ClientPhone:    "+79990000000",
		SpecialistName: "Анна",
		Services:       []domain.AppointmentService{{ServiceID: 10, Name: "Стрижка"}},
	}
}

func newUseCase(repo *fakeAppointments, client *fakeClient, m fakeMetrics) *UseCase {
	uc := NewUseCase(repo, client, m, Options{Lead: 24 * time.Hour, BatchSize: 50}, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_SendsOncePerAppointment(t *testing.T) {
	repo := &fakeAppointments{due: []*domain.Appointment{due(1), due(2)}, sentAt: map[int64]time.Time{}}
	client := &fakeClient{}
	m := fakeMetrics{}
	uc := newUseCase(repo, client, m)

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Result{Found: 2, Sent: 2}, result)
	assert.Equal(t, now, repo.from)
	assert.Equal(t, now.Add(24*time.Hour), repo.to)
	assert.Equal(t, 50, repo.limit)

	require.Len(t, client.sent, 2)
	assert.Equal(t, "2026-10-17", client.sent[0].Date)
	assert.Equal(t, "08:30", client.sent[0].StartTime)
	assert.Equal(t, []string{"Стрижка"}, client.sent[0].Services)

	// Повторный проход по тем же записям ничего не отправляет
	result, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, client.sent, 2)
	assert.Equal(t, 2, m[resultSent])
	assert.Equal(t, 2, m[resultSkipped])
}

func TestExecute_FailedSendIsReleasedForRetry(t *testing.T) {
	repo := &fakeAppointments{due: []*domain.Appointment{due(1)}, sentAt: map[int64]time.Time{}}
	client := &fakeClient{failFor: map[int64]bool{1: true}}
	m := fakeMetrics{}
	uc := newUseCase(repo, client, m)

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.NotContains(t, repo.sentAt, int64(1))

	client.failFor = nil
	result, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Contains(t, repo.sentAt, int64(1))
	assert.Equal(t, 1, m[resultFailed])
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeAppointments{dueErr: errors.New("db down"), sentAt: map[int64]time.Time{}}
	uc := newUseCase(repo, &fakeClient{}, fakeMetrics{})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
