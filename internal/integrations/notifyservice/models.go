package notifyservice

// Reminder запрос на отправку напоминания о записи
type Reminder struct {
	AppointmentID  int64    `json:"appointment_id"`
	ClientID       *int64   `json:"client_id,omitempty"`
	ClientName     string   `json:"client_name"`
	ClientPhone    string   `json:"client_phone"`
	ClientEmail    *string  `json:"client_email,omitempty"`
	SpecialistName string   `json:"specialist_name"`
	Date           string   `json:"date"`       // YYYY-MM-DD
	StartTime      string   `json:"start_time"` // HH:MM
	Services       []string `json:"services"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
