package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Overlaps checks half-open intervals [aStart, aEnd) and [bStart, bEnd).
// Adjacent intervals (aEnd == bStart) do not overlap.
//
// Примеры:
// - 11:30-12:00 и 11:20-11:40 → пересекаются
// - 11:30-12:00 и 11:00-11:30 → НЕ пересекаются (граничат)
// - 11:30-12:00 и 12:00-12:30 → НЕ пересекаются (граничат)
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// Candidate is an interval someone wants to place on a specialist's calendar
type Candidate struct {
	SpecialistID int64
	Date         time.Time
	Start        types.TimeString
	End          types.TimeString
	ExcludeID    int64 // appointment being moved; 0 = none
}

// Conflicts reports whether two appointments cannot coexist:
// same specialist, same date, neither cancelled, overlapping intervals.
func Conflicts(a, b *domain.Appointment) bool {
	if a.SpecialistID != b.SpecialistID || !SameDay(a.BookingDate, b.BookingDate) {
		return false
	}
	if !a.OccupiesSlot() || !b.OccupiesSlot() {
		return false
	}
	return Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}

// FindConflict returns the first existing appointment that blocks the candidate, or nil
func FindConflict(c Candidate, existing []*domain.Appointment) *domain.Appointment {
	for _, a := range existing {
		if c.ExcludeID != 0 && a.ID == c.ExcludeID {
			continue
		}
		if a.SpecialistID != c.SpecialistID || !SameDay(a.BookingDate, c.Date) || !a.OccupiesSlot() {
			continue
		}
		if Overlaps(c.Start, c.End, a.StartTime, a.EndTime) {
			return a
		}
	}
	return nil
}

// countOverlapping counts slot-occupying appointments overlapping [start, end)
func countOverlapping(start, end types.TimeString, appointments []*domain.Appointment) int {
	count := 0
	for _, a := range appointments {
		if !a.OccupiesSlot() {
			continue
		}
		if Overlaps(start, end, a.StartTime, a.EndTime) {
			count++
		}
	}
	return count
}

// SameDay проверяет, что две даты относятся к одному и тому же дню
func SameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateInPast проверяет, что дата раньше сегодняшнего дня
func DateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
