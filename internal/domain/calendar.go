package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidSchedule is returned when a day configuration or work day breaks its invariants
var ErrInvalidSchedule = errors.New("invalid schedule")

// DayConfiguration represents the business-wide booking rules for one weekday
type DayConfiguration struct {
	Weekday         time.Weekday
	Active          bool
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	LunchStart      types.TimeString // zero = no lunch break
	LunchEnd        types.TimeString
	IntervalMinutes int
	CapacityPerSlot int
	UpdatedAt       time.Time
}

// HasLunch returns true if a lunch window is configured
func (c *DayConfiguration) HasLunch() bool {
	return !c.LunchStart.IsZero() && !c.LunchEnd.IsZero()
}

// Validate checks the configuration invariants
func (c *DayConfiguration) Validate() error {
	if c.Weekday < time.Sunday || c.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, c.Weekday)
	}
	if c.OpenTime.IsZero() || c.CloseTime.IsZero() {
		return fmt.Errorf("%w: open and close time are required", ErrInvalidSchedule)
	}
	if !c.OpenTime.IsBefore(c.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidSchedule, c.OpenTime, c.CloseTime)
	}
	if c.LunchStart.IsZero() != c.LunchEnd.IsZero() {
		return fmt.Errorf("%w: lunch start and end must be set together", ErrInvalidSchedule)
	}
	if c.HasLunch() && !c.LunchStart.IsBefore(c.LunchEnd) {
		return fmt.Errorf("%w: lunch start %s must be before lunch end %s", ErrInvalidSchedule, c.LunchStart, c.LunchEnd)
	}
	if c.IntervalMinutes < MinIntervalMinutes || c.IntervalMinutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: interval must be between %d and %d minutes", ErrInvalidSchedule, MinIntervalMinutes, MaxIntervalMinutes)
	}
	if c.CapacityPerSlot < MinCapacityPerSlot || c.CapacityPerSlot > MaxCapacityPerSlot {
		return fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidSchedule, MinCapacityPerSlot, MaxCapacityPerSlot)
	}
	return nil
}

// DefaultDayConfiguration returns the configuration used when none is persisted for weekday:
// 09:00-18:00 with a 12:00-13:00 lunch, 30-minute interval, capacity 3, Sunday closed.
func DefaultDayConfiguration(weekday time.Weekday) DayConfiguration {
	return DayConfiguration{
		Weekday:         weekday,
		Active:          weekday != time.Sunday,
		OpenTime:        types.MustTimeString(DefaultOpenTime),
		CloseTime:       types.MustTimeString(DefaultCloseTime),
		LunchStart:      types.MustTimeString(DefaultLunchStart),
		LunchEnd:        types.MustTimeString(DefaultLunchEnd),
		IntervalMinutes: DefaultIntervalMinutes,
		CapacityPerSlot: DefaultCapacityPerSlot,
	}
}

// DefaultDayConfigurations returns defaults for the whole week, Sunday first
func DefaultDayConfigurations() []DayConfiguration {
	result := make([]DayConfiguration, 0, DaysInWeek)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		result = append(result, DefaultDayConfiguration(wd))
	}
	return result
}

// WorkDay is a specialist's working hours on one weekday
type WorkDay struct {
	Weekday time.Weekday
	Works   bool
	Start   types.TimeString
	End     types.TimeString
}

// Validate checks that a working day has a non-empty interval
func (d *WorkDay) Validate() error {
	if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, d.Weekday)
	}
	if !d.Works {
		return nil
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return fmt.Errorf("%w: start and end are required on a working day", ErrInvalidSchedule)
	}
	if !d.Start.IsBefore(d.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidSchedule, d.Start, d.End)
	}
	return nil
}

// SpecialistSchedule is the weekly schedule of one specialist
type SpecialistSchedule struct {
	SpecialistID int64
	Days         []WorkDay
}

// Day returns the schedule entry for weekday; a missing entry means a day off
func (s *SpecialistSchedule) Day(weekday time.Weekday) WorkDay {
	for _, d := range s.Days {
		if d.Weekday == weekday {
			return d
		}
	}
	return WorkDay{Weekday: weekday}
}

// Validate checks every entry and rejects duplicate weekdays
func (s *SpecialistSchedule) Validate() error {
	seen := make(map[time.Weekday]bool, len(s.Days))
	for i := range s.Days {
		if err := s.Days[i].Validate(); err != nil {
			return err
		}
		if seen[s.Days[i].Weekday] {
			return fmt.Errorf("%w: duplicate weekday %d", ErrInvalidSchedule, s.Days[i].Weekday)
		}
		seen[s.Days[i].Weekday] = true
	}
	return nil
}
