package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	Date         time.Time        // Дата записи (без времени)
	StartTime    types.TimeString // Время начала, например "10:00"
	SpecialistID int64            // ID мастера
	ServiceIDs   []int64          // Услуги в порядке выполнения
	Discount     float64          // Скидка в рублях, 0..subtotal
	Client       Client           // Данные клиента
	Notes        *string          // Комментарий (опционально)
}

// Client данные клиента. Аутентификация внешняя, ID может отсутствовать у гостевой записи.
type Client struct {
	ID    *int64
	Name  string
	Phone string
	Email *string
}
