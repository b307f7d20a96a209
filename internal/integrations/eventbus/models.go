package eventbus

import "time"

// Заголовки сообщений
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSource        = "source"
	HeaderSchemaVersion = "schema-version"

	schemaVersion = "1"
	source        = "salon-booking"
)

// AppointmentEvent событие о записи для внешних потребителей (письма, PDF, бонусы)
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointmentId"`
	SpecialistID  int64     `json:"specialistId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	ClientID      *int64    `json:"clientId,omitempty"`
	ClientEmail   *string   `json:"clientEmail,omitempty"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurredAt"`
}
