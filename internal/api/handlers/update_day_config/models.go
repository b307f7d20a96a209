package update_day_config

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UpsertDayRequest HTTP request model. Пустые lunchStart/lunchEnd - день без обеда.
type UpsertDayRequest struct {
	Active          bool   `json:"active"`
	OpenTime        string `json:"openTime" validate:"omitempty,hhmm"`
	CloseTime       string `json:"closeTime" validate:"omitempty,hhmm"`
	LunchStart      string `json:"lunchStart" validate:"omitempty,hhmm"`
	LunchEnd        string `json:"lunchEnd" validate:"omitempty,hhmm"`
	IntervalMinutes int    `json:"intervalMinutes" validate:"min=5,max=240"`
	CapacityPerSlot int    `json:"capacityPerSlot" validate:"min=1,max=50"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertDayRequest) ToServiceRequest() (*models.UpsertDayRequest, error) {
	req := &models.UpsertDayRequest{
		Active:          r.Active,
		IntervalMinutes: r.IntervalMinutes,
		CapacityPerSlot: r.CapacityPerSlot,
	}

	var err error
	if req.OpenTime, err = parseOptionalTime(r.OpenTime); err != nil {
		return nil, err
	}
	if req.CloseTime, err = parseOptionalTime(r.CloseTime); err != nil {
		return nil, err
	}
	if req.LunchStart, err = parseOptionalTime(r.LunchStart); err != nil {
		return nil, err
	}
	if req.LunchEnd, err = parseOptionalTime(r.LunchEnd); err != nil {
		return nil, err
	}

	return req, nil
}

func parseOptionalTime(value string) (types.TimeString, error) {
	if value == "" {
		return types.TimeString{}, nil
	}
	return types.NewTimeStringFromString(value)
}
