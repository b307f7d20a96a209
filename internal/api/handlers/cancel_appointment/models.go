package cancel_appointment

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model. Тело необязательно.
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		Reason: r.Reason,
	}
}
