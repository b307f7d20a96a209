// Package scheduling computes bookable slots and detects appointment conflicts.
// Everything here is a pure function of its inputs.
package scheduling

import (
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request holds the inputs shared by every schedule source
type Request struct {
	Date            time.Time
	DurationMinutes int
	// Now is the current wall-clock time in the salon's location
	Now time.Time
	// Appointments already on Date; for a specialist source, only that specialist's
	Appointments []*domain.Appointment
}

// Slots returns the ordered slot sequence for one day.
// The sequence is restartable: every iteration recomputes from the inputs.
func Slots[S ScheduleSource](src S, req Request) iter.Seq[domain.Slot] {
	w := src.Window()

	return func(yield func(domain.Slot) bool) {
		// Шаг 1: Закрытый день или некорректные параметры - слотов нет
		if !w.Open || req.DurationMinutes <= 0 || w.StepMinutes <= 0 || w.Start.IsZero() || w.End.IsZero() {
			return
		}

		pastDay := DateInPast(req.Date, req.Now)
		today := SameDay(req.Date, req.Now)
		nowTime := types.NewTimeString(req.Now)

		// Шаг 2: Идём от начала до конца дня с шагом StepMinutes
		t := w.Start
		for t.IsBefore(w.End) {
			// Шаг 3: Обед вырезается - перескакиваем на его конец
			if w.inLunch(t) {
				t = w.LunchEnd
				continue
			}

			// Шаг 4: Услуга должна целиком поместиться до закрытия
			tEnd, err := t.AddMinutes(req.DurationMinutes)
			if err != nil || tEnd.IsAfter(w.End) {
				return
			}

			// Кандидат, задевающий обед, отбрасывается
			if !(w.hasLunch() && Overlaps(t, tEnd, w.LunchStart, w.LunchEnd)) {
				slot := buildSlot(w, t, tEnd, req.Appointments)

				// Шаг 5: Прошедшее время перекрывает занятость
				if pastDay || (today && !t.IsAfter(nowTime)) {
					slot.AvailableCount = 0
					slot.Status = domain.SlotPast
				}

				if !yield(slot) {
					return
				}
			}

			t, err = t.AddMinutes(w.StepMinutes)
			if err != nil {
				return
			}
		}
	}
}

// Generate collects Slots into a slice
func Generate[S ScheduleSource](src S, req Request) []domain.Slot {
	result := slices.Collect(Slots(src, req))
	if result == nil {
		return []domain.Slot{}
	}
	return result
}

func buildSlot(w DayWindow, start, end types.TimeString, appointments []*domain.Appointment) domain.Slot {
	available := w.Capacity - countOverlapping(start, end, appointments)
	if available < 0 {
		available = 0
	}

	status := domain.SlotBooked
	if available > 0 {
		status = domain.SlotAvailable
	}

	return domain.Slot{
		StartTime:      start,
		EndTime:        end,
		Status:         status,
		AvailableCount: available,
		Capacity:       w.Capacity,
	}
}
