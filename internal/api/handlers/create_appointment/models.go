package create_appointment

import (
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateAppointmentRequest HTTP модель запроса на создание записи
type CreateAppointmentRequest struct {
	Date         string     `json:"date" validate:"required,isodate"`
	StartTime    string     `json:"startTime" validate:"required,hhmm"`
	SpecialistID int64      `json:"specialistId" validate:"required,gt=0"`
	ServiceIDs   []int64    `json:"serviceIds" validate:"required,min=1,max=10,unique,dive,gt=0"`
	Discount     float64    `json:"discount" validate:"gte=0"`
	Client       ClientInfo `json:"client" validate:"required"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ClientInfo контактные данные клиента
type ClientInfo struct {
	ID    *int64  `json:"id,omitempty" validate:"omitempty,gt=0"` // учитывается только для администратора
	Name  string  `json:"name" validate:"required,max=200"`
	Phone string  `json:"phone" validate:"required,max=32"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиент всегда записывается на себя, администратор может указать ID клиента.
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	clientID := r.Client.ID
	if !actor.IsAdmin() {
		id := actor.UserID
		clientID = &id
	}

	return &createAppointment.Request{
		Date:         date,
		StartTime:    startTime,
		SpecialistID: r.SpecialistID,
		ServiceIDs:   r.ServiceIDs,
		Discount:     r.Discount,
		Client: createAppointment.Client{
			ID:    clientID,
			Name:  r.Client.Name,
			Phone: r.Client.Phone,
			Email: r.Client.Email,
		},
		Notes: r.Notes,
	}, nil
}
