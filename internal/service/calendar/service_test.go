package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeDayStore struct {
	days      map[time.Weekday]domain.DayConfiguration
	upserts   int
	upsertErr error
}

func (f *fakeDayStore) GetAllDays(context.Context) ([]domain.DayConfiguration, error) {
	result := make([]domain.DayConfiguration, 0, len(f.days))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if d, ok := f.days[wd]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeDayStore) UpsertDay(_ context.Context, cfg *domain.DayConfiguration) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	cfg.UpdatedAt = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	f.days[cfg.Weekday] = *cfg
	return nil
}

type fakeSchedules struct {
	schedules map[int64]*domain.SpecialistSchedule
}

func (f *fakeSchedules) GetSpecialistSchedule(_ context.Context, id int64) (*domain.SpecialistSchedule, error) {
	if s, ok := f.schedules[id]; ok {
		return s, nil
	}
	return &domain.SpecialistSchedule{SpecialistID: id}, nil
}

func (f *fakeSchedules) ReplaceSpecialistSchedule(_ context.Context, s *domain.SpecialistSchedule) error {
	f.schedules[s.SpecialistID] = s
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

type passTx struct {
	calls int
}

func (m *passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newService() (*Service, *fakeDayStore, *fakeSchedules, *passTx) {
	days := &fakeDayStore{days: make(map[time.Weekday]domain.DayConfiguration)}
	schedules := &fakeSchedules{schedules: make(map[int64]*domain.SpecialistSchedule)}
	tx := &passTx{}
	svc := NewService(days, schedules, fakeSpecialists{1: {ID: 1, Name: "Анна", Active: true}}, tx, logger.NewNop())
	return svc, days, schedules, tx
}

func TestWeek_SeedsDefaultsOnFirstRead(t *testing.T) {
	svc, store, _, tx := newService()

	days, err := svc.Week(context.Background())
	require.NoError(t, err)

	require.Len(t, days, domain.DaysInWeek)
	assert.Equal(t, time.Sunday, days[0].Weekday)
	assert.False(t, days[0].Active)
	for _, d := range days[1:] {
		assert.True(t, d.Active)
		assert.Equal(t, "09:00", d.OpenTime.String())
		assert.Equal(t, "18:00", d.CloseTime.String())
		assert.Equal(t, "12:00", d.LunchStart.String())
		assert.Equal(t, "13:00", d.LunchEnd.String())
		assert.Equal(t, 30, d.IntervalMinutes)
		assert.Equal(t, 3, d.CapacityPerSlot)
	}

	assert.Equal(t, domain.DaysInWeek, store.upserts)
	assert.Equal(t, 1, tx.calls)

	// Второе чтение берёт сохранённые значения
	_, err = svc.Week(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DaysInWeek, store.upserts)
}

func TestWeek_SeedFailureStillReturnsDefaults(t *testing.T) {
	svc, store, _, _ := newService()
	store.upsertErr = errors.New("db down")

	days, err := svc.Week(context.Background())
	require.NoError(t, err)
	assert.Len(t, days, domain.DaysInWeek)
}

func TestWeek_FillsMissingDays(t *testing.T) {
	svc, store, _, _ := newService()
	monday := domain.DefaultDayConfiguration(time.Monday)
	monday.CapacityPerSlot = 5
	store.days[time.Monday] = monday

	days, err := svc.Week(context.Background())
	require.NoError(t, err)

	require.Len(t, days, domain.DaysInWeek)
	assert.Equal(t, 5, days[time.Monday].CapacityPerSlot)
	assert.Equal(t, 3, days[time.Tuesday].CapacityPerSlot)
	assert.Equal(t, 0, store.upserts)
}

func TestUpsertDay(t *testing.T) {
	svc, store, _, _ := newService()

	resp, err := svc.UpsertDay(context.Background(), time.Saturday, &models.UpsertDayRequest{
		Active:          true,
		OpenTime:        types.MustTimeString("10:00"),
		CloseTime:       types.MustTimeString("16:00"),
		IntervalMinutes: 15,
		CapacityPerSlot: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, int(time.Saturday), resp.Weekday)
	assert.True(t, resp.LunchStart.IsZero())
	require.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, 15, store.days[time.Saturday].IntervalMinutes)

	_, err = svc.UpsertDay(context.Background(), time.Saturday, &models.UpsertDayRequest{
		Active:          true,
		OpenTime:        types.MustTimeString("18:00"),
		CloseTime:       types.MustTimeString("10:00"),
		IntervalMinutes: 30,
		CapacityPerSlot: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpsertDay(context.Background(), time.Saturday, &models.UpsertDayRequest{
		Active:          true,
		OpenTime:        types.MustTimeString("09:00"),
		CloseTime:       types.MustTimeString("18:00"),
		LunchStart:      types.MustTimeString("13:00"),
		LunchEnd:        types.MustTimeString("12:00"),
		IntervalMinutes: 30,
		CapacityPerSlot: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSchedule(t *testing.T) {
	svc, _, schedules, _ := newService()

	resp, err := svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
		Days: []models.WorkDay{
			{Weekday: 1, Works: true, Start: types.MustTimeString("10:00"), End: types.MustTimeString("19:00")},
			{Weekday: 2, Works: false},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, domain.DaysInWeek)
	assert.True(t, resp.Days[1].Works)
	assert.False(t, resp.Days[3].Works)
	assert.Len(t, schedules.schedules[1].Days, 2)

	got, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Days[1].Start.String())

	_, err = svc.GetSchedule(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSpecialistNotFound)

	_, err = svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
		Days: []models.WorkDay{
			{Weekday: 1, Works: true, Start: types.MustTimeString("19:00"), End: types.MustTimeString("10:00")},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateSchedule(context.Background(), 1, &models.UpdateScheduleRequest{
		Days: []models.WorkDay{{Weekday: 1}, {Weekday: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
