package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// SlotStatus is the availability state of a computed slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotPast      SlotStatus = "past"
)

// Slot represents a candidate time interval computed at read time. Never persisted.
type Slot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         SlotStatus
	AvailableCount int
	Capacity       int
}
