package update_specialist_schedule

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UpdateScheduleRequest HTTP request model. Дни, которых нет в списке, считаются выходными.
type UpdateScheduleRequest struct {
	Days []WorkDay `json:"days" validate:"max=7,unique=Weekday,dive"`
}

// WorkDay рабочий день мастера, weekday 0 = воскресенье
type WorkDay struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Works   bool   `json:"works"`
	Start   string `json:"start" validate:"required_if=Works true,omitempty,hhmm"`
	End     string `json:"end" validate:"required_if=Works true,omitempty,hhmm"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest() (*models.UpdateScheduleRequest, error) {
	req := &models.UpdateScheduleRequest{Days: make([]models.WorkDay, 0, len(r.Days))}

	for _, d := range r.Days {
		day := models.WorkDay{Weekday: d.Weekday, Works: d.Works}
		if d.Start != "" {
			start, err := types.NewTimeStringFromString(d.Start)
			if err != nil {
				return nil, err
			}
			day.Start = start
		}
		if d.End != "" {
			end, err := types.NewTimeStringFromString(d.End)
			if err != nil {
				return nil, err
			}
			day.End = end
		}
		req.Days = append(req.Days, day)
	}

	return req, nil
}
