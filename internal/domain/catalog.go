package domain

// Specialist represents a salon employee who performs services
type Specialist struct {
	ID     int64
	Name   string
	Active bool
}

// Service represents a bookable salon service
type Service struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
}
