package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модели

// UpsertDayRequest запрос на создание или обновление конфигурации дня недели.
// Пустые lunchStart/lunchEnd - день без обеда.
type UpsertDayRequest struct {
	Active          bool             `json:"active"`
	OpenTime        types.TimeString `json:"openTime"`
	CloseTime       types.TimeString `json:"closeTime"`
	LunchStart      types.TimeString `json:"lunchStart"`
	LunchEnd        types.TimeString `json:"lunchEnd"`
	IntervalMinutes int              `json:"intervalMinutes"`
	CapacityPerSlot int              `json:"capacityPerSlot"`
}

// ToDomain конвертирует запрос в domain модель
func (r *UpsertDayRequest) ToDomain(weekday time.Weekday) *domain.DayConfiguration {
	return &domain.DayConfiguration{
		Weekday:         weekday,
		Active:          r.Active,
		OpenTime:        r.OpenTime,
		CloseTime:       r.CloseTime,
		LunchStart:      r.LunchStart,
		LunchEnd:        r.LunchEnd,
		IntervalMinutes: r.IntervalMinutes,
		CapacityPerSlot: r.CapacityPerSlot,
	}
}

// WorkDay рабочий день мастера
type WorkDay struct {
	Weekday int              `json:"weekday"` // 0 = воскресенье
	Works   bool             `json:"works"`
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
}

// UpdateScheduleRequest запрос на замену недельного графика мастера
type UpdateScheduleRequest struct {
	Days []WorkDay `json:"days"`
}

// ToDomain конвертирует запрос в domain модель
func (r *UpdateScheduleRequest) ToDomain(specialistID int64) *domain.SpecialistSchedule {
	schedule := &domain.SpecialistSchedule{
		SpecialistID: specialistID,
		Days:         make([]domain.WorkDay, 0, len(r.Days)),
	}
	for _, d := range r.Days {
		schedule.Days = append(schedule.Days, domain.WorkDay{
			Weekday: time.Weekday(d.Weekday),
			Works:   d.Works,
			Start:   d.Start,
			End:     d.End,
		})
	}
	return schedule
}

// Response модели

// DayConfigResponse конфигурация дня недели
type DayConfigResponse struct {
	Weekday         int              `json:"weekday"`
	Active          bool             `json:"active"`
	OpenTime        types.TimeString `json:"openTime"`
	CloseTime       types.TimeString `json:"closeTime"`
	LunchStart      types.TimeString `json:"lunchStart"`
	LunchEnd        types.TimeString `json:"lunchEnd"`
	IntervalMinutes int              `json:"intervalMinutes"`
	CapacityPerSlot int              `json:"capacityPerSlot"`
	UpdatedAt       *time.Time       `json:"updatedAt,omitempty"`
}

// DayConfigListResponse конфигурация всей недели, воскресенье первым
type DayConfigListResponse struct {
	Days []DayConfigResponse `json:"days"`
}

// ScheduleResponse недельный график мастера, все семь дней
type ScheduleResponse struct {
	SpecialistID int64     `json:"specialistId"`
	Days         []WorkDay `json:"days"`
}

// Функции конвертации

// FromDomainDayConfig конвертирует domain модель в response
func FromDomainDayConfig(cfg *domain.DayConfiguration) *DayConfigResponse {
	resp := &DayConfigResponse{
		Weekday:         int(cfg.Weekday),
		Active:          cfg.Active,
		OpenTime:        cfg.OpenTime,
		CloseTime:       cfg.CloseTime,
		LunchStart:      cfg.LunchStart,
		LunchEnd:        cfg.LunchEnd,
		IntervalMinutes: cfg.IntervalMinutes,
		CapacityPerSlot: cfg.CapacityPerSlot,
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainDayConfigList конвертирует список domain моделей в response
func FromDomainDayConfigList(days []domain.DayConfiguration) *DayConfigListResponse {
	resp := &DayConfigListResponse{Days: make([]DayConfigResponse, 0, len(days))}
	for i := range days {
		resp.Days = append(resp.Days, *FromDomainDayConfig(&days[i]))
	}
	return resp
}

// FromDomainSchedule конвертирует график в response, дни без записи отдаются как выходные
func FromDomainSchedule(schedule *domain.SpecialistSchedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		SpecialistID: schedule.SpecialistID,
		Days:         make([]WorkDay, 0, domain.DaysInWeek),
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		d := schedule.Day(wd)
		resp.Days = append(resp.Days, WorkDay{
			Weekday: int(wd),
			Works:   d.Works,
			Start:   d.Start,
			End:     d.End,
		})
	}
	return resp
}
