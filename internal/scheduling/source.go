package scheduling

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DayWindow is the normalized form of a schedule source for one date
type DayWindow struct {
	Open        bool
	Start       types.TimeString
	End         types.TimeString
	LunchStart  types.TimeString // zero = no lunch
	LunchEnd    types.TimeString
	StepMinutes int
	Capacity    int
}

func (w DayWindow) hasLunch() bool {
	return !w.LunchStart.IsZero() && !w.LunchEnd.IsZero() && w.LunchStart.IsBefore(w.LunchEnd)
}

// inLunch returns true if t lies within [LunchStart, LunchEnd)
func (w DayWindow) inLunch(t types.TimeString) bool {
	return w.hasLunch() && !t.IsBefore(w.LunchStart) && t.IsBefore(w.LunchEnd)
}

// ScheduleSource is a typed source of bookable hours.
// Business-wide and specialist-scoped sources keep their own stepping and capacity rules.
type ScheduleSource interface {
	BusinessDay | SpecialistDay
	Window() DayWindow
}

// BusinessDay generates slots from the salon-wide day configuration:
// configured interval, shared capacity, lunch carved out.
type BusinessDay struct {
	Config domain.DayConfiguration
}

func (d BusinessDay) Window() DayWindow {
	return DayWindow{
		Open:        d.Config.Active,
		Start:       d.Config.OpenTime,
		End:         d.Config.CloseTime,
		LunchStart:  d.Config.LunchStart,
		LunchEnd:    d.Config.LunchEnd,
		StepMinutes: d.Config.IntervalMinutes,
		Capacity:    d.Config.CapacityPerSlot,
	}
}

// SpecialistDay generates slots from one specialist's working day:
// fixed 30-minute step, capacity 1, no lunch.
type SpecialistDay struct {
	Day domain.WorkDay
}

func (d SpecialistDay) Window() DayWindow {
	return DayWindow{
		Open:        d.Day.Works,
		Start:       d.Day.Start,
		End:         d.Day.End,
		StepMinutes: domain.SpecialistStepMinutes,
		Capacity:    domain.SpecialistCapacity,
	}
}
