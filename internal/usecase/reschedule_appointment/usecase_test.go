package reschedule_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeAppointments struct {
	mu        sync.Mutex
	items     map[int64]*domain.Appointment
	updateErr error
	getErr    error
	occupyErr error
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointments) GetOccupying(_ context.Context, date time.Time, specialistID *int64) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.occupyErr != nil {
		return nil, f.occupyErr
	}
	var result []*domain.Appointment
	for _, a := range f.items {
		if !a.OccupiesSlot() || !a.BookingDate.Equal(date) {
			continue
		}
		if specialistID != nil && a.SpecialistID != *specialistID {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeAppointments) UpdateSchedule(_ context.Context, a *domain.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.items[a.ID]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

type fakeSpecialists map[int64]domain.Specialist

func (f fakeSpecialists) GetSpecialistByID(_ context.Context, id int64) (*domain.Specialist, error) {
	s, ok := f[id]
	if !ok {
		return nil, catalogRepo.ErrSpecialistNotFound
	}
	return &s, nil
}

type serialTx struct {
	mu sync.Mutex
}

func (m *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, eventType string, _ *domain.Appointment) {
	n.events = append(n.events, eventType)
}

type fakeMetrics struct {
	rescheduled int
	conflicts   int
}

func (m *fakeMetrics) IncAppointmentsRescheduled() { m.rescheduled++ }
func (m *fakeMetrics) IncSlotConflict(string)      { m.conflicts++ }

type fixedTime struct {
	now time.Time
}

func (p fixedTime) Now() time.Time {
	return p.now
}

var (
	day = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	owner = domain.Actor{UserID: 42, Role: domain.RoleClient}
	admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

func appointment(id int64, start string, minutes int, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		ID:             id,
		BookingDate:    day,
		StartTime:      types.MustTimeString(start),
		SpecialistID:   1,
		SpecialistName: "Анна",
		Status:         status,
		Services:       []domain.AppointmentService{{ServiceID: 10, Name: "Стрижка", Price: 1500, DurationMinutes: minutes}},
		ClientID:       ptr.Ptr(int64(42)),
		ClientName:     "Мария",
		ClientPhone:    "+79990000000",
	}
	if err := a.RecalculateTotals(); err != nil {
		panic(err)
	}
	return a
}

type fixture struct {
	uc       *UseCase
	repo     *fakeAppointments
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

func newFixture(items ...*domain.Appointment) *fixture {
	repo := &fakeAppointments{items: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		repo.items[a.ID] = a
	}
	specialists := fakeSpecialists{
		1: {ID: 1, Name: "Анна", Active: true},
		2: {ID: 2, Name: "Олег", Active: true},
		3: {ID: 3, Name: "Ушла", Active: false},
	}
	n := &fakeNotifier{}
	m := &fakeMetrics{}

	uc := NewUseCase(repo, specialists, &serialTx{}, n, m, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}

	return &fixture{uc: uc, repo: repo, notifier: n, metrics: m}
}

func TestExecute_IntoTakenSlotLeavesOriginalIntact(t *testing.T) {
	f := newFixture(
		appointment(1, "10:00", 60, domain.StatusConfirmed),
		appointment(2, "12:00", 60, domain.StatusConfirmed),
	)

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:         owner,
		AppointmentID: 2,
		Date:          day,
		StartTime:     types.MustTimeString("10:30"),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	stored := f.repo.items[2]
	assert.Equal(t, "12:00", stored.StartTime.String())
	assert.Equal(t, "13:00", stored.EndTime.String())
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Empty(t, f.notifier.events)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_MovesAndResetsToPending(t *testing.T) {
	f := newFixture(
		appointment(1, "10:00", 60, domain.StatusConfirmed),
		appointment(2, "12:00", 60, domain.StatusConfirmed),
	)

	moved, err := f.uc.Execute(context.Background(), &Request{
		Actor:         owner,
		AppointmentID: 2,
		Date:          day,
		StartTime:     types.MustTimeString("11:00"),
		EndTime:       types.MustTimeString("12:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, moved.Status)
	assert.Equal(t, "11:00", moved.StartTime.String())
	assert.Equal(t, "12:00", moved.EndTime.String())
	assert.Equal(t, "11:00", f.repo.items[2].StartTime.String())
	assert.Equal(t, []string{domain.EventAppointmentRescheduled}, f.notifier.events)
	assert.Equal(t, 1, f.metrics.rescheduled)
}

func TestExecute_OverlapWithItselfIsAllowed(t *testing.T) {
	f := newFixture(appointment(1, "10:00", 60, domain.StatusPending))

	moved, err := f.uc.Execute(context.Background(), &Request{
		Actor:         owner,
		AppointmentID: 1,
		Date:          day,
		StartTime:     types.MustTimeString("10:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "11:30", moved.EndTime.String())
}

func TestExecute_ToAnotherSpecialist(t *testing.T) {
	f := newFixture(appointment(1, "10:00", 60, domain.StatusConfirmed))

	moved, err := f.uc.Execute(context.Background(), &Request{
		Actor:         admin,
		AppointmentID: 1,
		Date:          day.AddDate(0, 0, 1),
		StartTime:     types.MustTimeString("10:00"),
		SpecialistID:  ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), moved.SpecialistID)
	assert.Equal(t, "Олег", moved.SpecialistName)
	assert.True(t, moved.BookingDate.Equal(day.AddDate(0, 0, 1)))
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.AppointmentStatus
		req     Request
		wantErr error
	}{
		{
			name:    "cancelled appointment",
			status:  domain.StatusCancelled,
			req:     Request{Actor: owner, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00")},
			wantErr: ErrInvalidState,
		},
		{
			name:    "waiting appointment",
			status:  domain.StatusWaiting,
			req:     Request{Actor: owner, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00")},
			wantErr: ErrInvalidState,
		},
		{
			name:    "in progress appointment",
			status:  domain.StatusInProgress,
			req:     Request{Actor: admin, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00")},
			wantErr: ErrInvalidState,
		},
		{
			name:    "someone else's appointment",
			status:  domain.StatusPending,
			req:     Request{Actor: domain.Actor{UserID: 7, Role: domain.RoleClient}, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00")},
			wantErr: ErrForbidden,
		},
		{
			name:    "unknown appointment",
			status:  domain.StatusPending,
			req:     Request{Actor: owner, AppointmentID: 99, Date: day, StartTime: types.MustTimeString("15:00")},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "inactive specialist",
			status:  domain.StatusPending,
			req:     Request{Actor: owner, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00"), SpecialistID: ptr.Ptr(int64(3))},
			wantErr: ErrSpecialistNotFound,
		},
		{
			name:    "end time does not match services",
			status:  domain.StatusPending,
			req:     Request{Actor: owner, AppointmentID: 1, Date: day, StartTime: types.MustTimeString("15:00"), EndTime: types.MustTimeString("15:30")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			status:  domain.StatusPending,
			req:     Request{Actor: owner, AppointmentID: 1, Date: now.AddDate(0, 0, -1), StartTime: types.MustTimeString("15:00")},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := appointment(1, "10:00", 60, tt.status)
			f := newFixture(original)

			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "10:00", f.repo.items[1].StartTime.String())
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestExecute_StoreConstraintMapsToSlotUnavailable(t *testing.T) {
	f := newFixture(appointment(1, "10:00", 60, domain.StatusPending))
	f.repo.updateErr = appointmentRepo.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:         owner,
		AppointmentID: 1,
		Date:          day,
		StartTime:     types.MustTimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_LockedReadConflictMapsToSlotUnavailable(t *testing.T) {
	serializationErr := fmt.Errorf("%w: pq: could not serialize access due to concurrent update",
		appointmentRepo.ErrConcurrentUpdate)

	req := &Request{
		Actor:         owner,
		AppointmentID: 1,
		Date:          day,
		StartTime:     types.MustTimeString("14:00"),
	}

	t.Run("GetByID", func(t *testing.T) {
		f := newFixture(appointment(1, "10:00", 60, domain.StatusPending))
		f.repo.getErr = serializationErr

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("GetOccupying", func(t *testing.T) {
		f := newFixture(appointment(1, "10:00", 60, domain.StatusPending))
		f.repo.occupyErr = serializationErr

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		assert.Equal(t, "10:00", f.repo.items[1].StartTime.String())
	})

	t.Run("other read failure", func(t *testing.T) {
		f := newFixture(appointment(1, "10:00", 60, domain.StatusPending))
		f.repo.occupyErr = appointmentRepo.ErrExecQuery

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
