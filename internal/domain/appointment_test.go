package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusNoShow, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusWaiting, StatusConfirmed, true},
		{StatusWaiting, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
	assert.False(t, AppointmentStatus("unknown").IsValid())
}

func TestAppointment_CanBeCancelledAndRescheduled(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed} {
		a := Appointment{Status: s}
		assert.True(t, a.CanBeCancelled(), s)
		assert.True(t, a.CanBeRescheduled(), s)
	}
	for _, s := range []AppointmentStatus{StatusWaiting, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		a := Appointment{Status: s}
		assert.False(t, a.CanBeCancelled(), s)
		assert.False(t, a.CanBeRescheduled(), s)
	}
}

func TestAppointment_OccupiesSlot(t *testing.T) {
	assert.False(t, (&Appointment{Status: StatusCancelled}).OccupiesSlot())
	assert.True(t, (&Appointment{Status: StatusNoShow}).OccupiesSlot())
	assert.True(t, (&Appointment{Status: StatusWaiting}).OccupiesSlot())
}

func TestAppointment_RecalculateTotals(t *testing.T) {
	a := Appointment{
		StartTime: types.MustTimeString("10:00"),
		Discount:  5,
		Services: []AppointmentService{
			{ServiceID: 1, Name: "Стрижка", Price: 30, DurationMinutes: 45},
			{ServiceID: 2, Name: "Укладка", Price: 20, DurationMinutes: 30},
		},
	}

	require.NoError(t, a.RecalculateTotals())
	assert.Equal(t, 75, a.TotalDurationMinutes)
	assert.Equal(t, "11:15", a.EndTime.String())
	assert.Equal(t, 50.0, a.Subtotal)
	assert.Equal(t, 45.0, a.Total)

	a.StartTime = types.MustTimeString("23:00")
	assert.Error(t, a.RecalculateTotals())
}

func TestDayConfiguration_Validate(t *testing.T) {
	cfg := DefaultDayConfiguration(time.Monday)
	require.NoError(t, cfg.Validate())

	noLunch := cfg
	noLunch.LunchStart, noLunch.LunchEnd = types.TimeString{}, types.TimeString{}
	require.NoError(t, noLunch.Validate())
	assert.False(t, noLunch.HasLunch())

	bad := cfg
	bad.CloseTime = types.MustTimeString("08:00")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSchedule)

	bad = cfg
	bad.LunchEnd = types.MustTimeString("11:00")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSchedule)

	bad = cfg
	bad.LunchEnd = types.TimeString{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSchedule)

	bad = cfg
	bad.IntervalMinutes = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSchedule)
}

func TestDefaultDayConfigurations(t *testing.T) {
	days := DefaultDayConfigurations()
	require.Len(t, days, DaysInWeek)

	active := 0
	for i, d := range days {
		assert.Equal(t, time.Weekday(i), d.Weekday)
		if d.Active {
			active++
		}
		assert.Equal(t, "09:00", d.OpenTime.String())
		assert.Equal(t, "18:00", d.CloseTime.String())
		assert.Equal(t, 30, d.IntervalMinutes)
		assert.Equal(t, 3, d.CapacityPerSlot)
	}
	assert.Equal(t, 6, active)
	assert.False(t, days[time.Sunday].Active)
}

func TestSpecialistSchedule(t *testing.T) {
	s := SpecialistSchedule{
		SpecialistID: 1,
		Days: []WorkDay{
			{Weekday: time.Saturday, Works: true, Start: types.MustTimeString("09:00"), End: types.MustTimeString("14:00")},
		},
	}
	require.NoError(t, s.Validate())
	assert.True(t, s.Day(time.Saturday).Works)
	assert.False(t, s.Day(time.Monday).Works)

	s.Days = append(s.Days, WorkDay{Weekday: time.Saturday})
	assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)

	s.Days = []WorkDay{{Weekday: time.Friday, Works: true, Start: types.MustTimeString("14:00"), End: types.MustTimeString("09:00")}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)
}
