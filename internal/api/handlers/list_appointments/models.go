package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const defaultLimit = 50

// ToServiceRequest формирует запрос к сервису из query параметров.
// Query params: date, dateFrom, dateTo, specialistId, clientId, status, includeCancelled, limit, offset
func ToServiceRequest(query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{
		Limit: defaultLimit,
	}

	var err error
	if req.Date, err = parseDate(query, "date"); err != nil {
		return nil, err
	}
	if req.DateFrom, err = parseDate(query, "dateFrom"); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseDate(query, "dateTo"); err != nil {
		return nil, err
	}
	if req.SpecialistID, err = parseID(query, "specialistId"); err != nil {
		return nil, err
	}
	if req.ClientID, err = parseID(query, "clientId"); err != nil {
		return nil, err
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	if raw := query.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("invalid limit value: %w", err)
		}
	}

	if raw := query.Get("offset"); raw != "" {
		if req.Offset, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("invalid offset value: %w", err)
		}
	}

	return req, nil
}

func parseDate(query url.Values, name string) (*time.Time, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := handlers.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return &date, nil
}

func parseID(query url.Values, name string) (*int64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return &id, nil
}
