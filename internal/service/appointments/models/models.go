package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи (администратор)
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListAppointmentsRequest фильтр списка записей
type ListAppointmentsRequest struct {
	Date             *time.Time
	DateFrom         *time.Time
	DateTo           *time.Time
	SpecialistID     *int64
	ClientID         *int64
	Status           *string
	IncludeCancelled bool
	Limit            int
	Offset           int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		Date:             r.Date,
		DateFrom:         r.DateFrom,
		DateTo:           r.DateTo,
		SpecialistID:     r.SpecialistID,
		ClientID:         r.ClientID,
		IncludeCancelled: r.IncludeCancelled,
		Limit:            r.Limit,
		Offset:           r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ServiceLine услуга в составе записи
type ServiceLine struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                   int64         `json:"id"`
	Date                 string        `json:"date"`      // "2026-10-20"
	StartTime            string        `json:"startTime"` // "10:00"
	EndTime              string        `json:"endTime"`   // "11:30"
	SpecialistID         int64         `json:"specialistId"`
	SpecialistName       string        `json:"specialistName"`
	Status               string        `json:"status"`
	Services             []ServiceLine `json:"services"`
	TotalDurationMinutes int           `json:"totalDurationMinutes"`
	Subtotal             float64       `json:"subtotal"`
	Discount             float64       `json:"discount"`
	Total                float64       `json:"total"`

	ClientID    *int64  `json:"clientId,omitempty"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	ReminderSentAt     *time.Time `json:"reminderSentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// Функции конвертации

// ToDomainStatus конвертирует строку в статус записи
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	services := make([]ServiceLine, 0, len(a.Services))
	for _, s := range a.Services {
		services = append(services, ServiceLine{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return &AppointmentResponse{
		ID:                   a.ID,
		Date:                 a.BookingDate.Format(domain.DateFormat),
		StartTime:            a.StartTime.String(),
		EndTime:              a.EndTime.String(),
		SpecialistID:         a.SpecialistID,
		SpecialistName:       a.SpecialistName,
		Status:               string(a.Status),
		Services:             services,
		TotalDurationMinutes: a.TotalDurationMinutes,
		Subtotal:             a.Subtotal,
		Discount:             a.Discount,
		Total:                a.Total,
		ClientID:             a.ClientID,
		ClientName:           a.ClientName,
		ClientPhone:          a.ClientPhone,
		ClientEmail:          a.ClientEmail,
		Notes:                a.Notes,
		CancellationReason:   a.CancellationReason,
		CancelledAt:          a.CancelledAt,
		ReminderSentAt:       a.ReminderSentAt,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
