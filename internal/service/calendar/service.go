package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

// Service сервис для работы с календарём салона и графиками мастеров
type Service struct {
	dayStore       DayStore
	scheduleRepo   ScheduleRepository
	specialistRepo SpecialistRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	dayStore DayStore,
	scheduleRepo ScheduleRepository,
	specialistRepo SpecialistRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		dayStore:       dayStore,
		scheduleRepo:   scheduleRepo,
		specialistRepo: specialistRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetDays возвращает конфигурацию всей недели
func (s *Service) GetDays(ctx context.Context) (*models.DayConfigListResponse, error) {
	days, err := s.Week(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainDayConfigList(days), nil
}

// GetDay возвращает конфигурацию одного дня недели
func (s *Service) GetDay(ctx context.Context, weekday time.Weekday) (*models.DayConfigResponse, error) {
	cfg, err := s.DayConfiguration(ctx, weekday)
	if err != nil {
		return nil, err
	}
	return models.FromDomainDayConfig(cfg), nil
}

// UpsertDay создает или обновляет конфигурацию дня недели
func (s *Service) UpsertDay(ctx context.Context, weekday time.Weekday, req *models.UpsertDayRequest) (*models.DayConfigResponse, error) {
	s.logger.Info("UpsertDay: weekday=%d, active=%t, %s-%s, interval=%d, capacity=%d",
		weekday, req.Active, req.OpenTime, req.CloseTime, req.IntervalMinutes, req.CapacityPerSlot)

	cfg := req.ToDomain(weekday)
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("UpsertDay: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.dayStore.UpsertDay(ctx, cfg); err != nil {
		s.logger.Error("UpsertDay: repository error for weekday=%d: %v", weekday, err)
		return nil, fmt.Errorf("%w: UpsertDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertDay: successfully saved weekday=%d", weekday)
	return models.FromDomainDayConfig(cfg), nil
}

// Week возвращает конфигурации всех семи дней, воскресенье первым.
// Если ничего не сохранено, сохраняет и возвращает набор по умолчанию.
// Отдельные отсутствующие дни дополняются значениями по умолчанию без сохранения.
func (s *Service) Week(ctx context.Context) ([]domain.DayConfiguration, error) {
	days, err := s.dayStore.GetAllDays(ctx)
	if err != nil {
		s.logger.Error("Week: repository error: %v", err)
		return nil, fmt.Errorf("%w: Week - repository error: %v", ErrInternal, err)
	}

	if len(days) == 0 {
		return s.seedDefaults(ctx), nil
	}

	byWeekday := make(map[time.Weekday]domain.DayConfiguration, len(days))
	for _, d := range days {
		byWeekday[d.Weekday] = d
	}

	result := make([]domain.DayConfiguration, 0, domain.DaysInWeek)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if d, ok := byWeekday[wd]; ok {
			result = append(result, d)
			continue
		}
		result = append(result, domain.DefaultDayConfiguration(wd))
	}

	return result, nil
}

// DayConfiguration возвращает конфигурацию одного дня недели
func (s *Service) DayConfiguration(ctx context.Context, weekday time.Weekday) (*domain.DayConfiguration, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidInput, weekday)
	}

	days, err := s.Week(ctx)
	if err != nil {
		return nil, err
	}

	cfg := days[weekday]
	return &cfg, nil
}

// seedDefaults сохраняет набор по умолчанию.
// Ошибка сохранения не мешает чтению: значения по умолчанию всё равно возвращаются.
func (s *Service) seedDefaults(ctx context.Context) []domain.DayConfiguration {
	defaults := domain.DefaultDayConfigurations()

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for i := range defaults {
			if err := s.dayStore.UpsertDay(txCtx, &defaults[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Week: failed to persist default day configurations: %v", err)
		return domain.DefaultDayConfigurations()
	}

	s.logger.Info("Week: persisted default day configurations")
	return defaults
}

// GetSchedule возвращает недельный график мастера
func (s *Service) GetSchedule(ctx context.Context, specialistID int64) (*models.ScheduleResponse, error) {
	schedule, err := s.SpecialistSchedule(ctx, specialistID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSchedule(schedule), nil
}

// SpecialistSchedule возвращает график существующего мастера
func (s *Service) SpecialistSchedule(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	if err := s.ensureSpecialist(ctx, "SpecialistSchedule", specialistID); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetSpecialistSchedule(ctx, specialistID)
	if err != nil {
		s.logger.Error("SpecialistSchedule: repository error for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: SpecialistSchedule - repository error: %v", ErrInternal, err)
	}

	return schedule, nil
}

// UpdateSchedule полностью заменяет недельный график мастера
func (s *Service) UpdateSchedule(ctx context.Context, specialistID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: specialist=%d, days=%d", specialistID, len(req.Days))

	schedule := req.ToDomain(specialistID)
	if len(schedule.Days) > domain.DaysInWeek {
		return nil, fmt.Errorf("%w: at most %d days", ErrInvalidInput, domain.DaysInWeek)
	}
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.ensureSpecialist(ctx, "UpdateSchedule", specialistID); err != nil {
		return nil, err
	}

	// Удаление и вставка должны быть видны атомарно
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceSpecialistSchedule(txCtx, schedule)
	})
	if err != nil {
		s.logger.Error("UpdateSchedule: repository error for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: successfully replaced schedule for specialist=%d", specialistID)
	return models.FromDomainSchedule(schedule), nil
}

func (s *Service) ensureSpecialist(ctx context.Context, op string, specialistID int64) error {
	_, err := s.specialistRepo.GetSpecialistByID(ctx, specialistID)
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogRepo.ErrSpecialistNotFound) {
		s.logger.Warn("%s: specialist id=%d not found", op, specialistID)
		return ErrSpecialistNotFound
	}
	s.logger.Error("%s: failed to get specialist id=%d: %v", op, specialistID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
