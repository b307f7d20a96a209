package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Длительность услуги в минутах
	SpecialistID    *int64    // Мастер (опционально); без него слоты считаются по календарю салона
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	SpecialistID    *int64
	DurationMinutes int
	Open            bool          // Работает ли салон (мастер) в этот день
	Slots           []domain.Slot // По возрастанию времени начала
}
