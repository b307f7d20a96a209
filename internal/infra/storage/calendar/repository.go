package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	dayConfigTable = "day_configurations"
	workDayTable   = "specialist_work_days"
)

var dayConfigColumns = []string{
	"weekday",
	"active",
	"open_time",
	"close_time",
	"lunch_start",
	"lunch_end",
	"interval_minutes",
	"capacity_per_slot",
	"updated_at",
}

// Repository репозиторий календаря: настройки дней недели и графики мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetAllDays возвращает все сохранённые конфигурации, отсортированные по дню недели.
// Пустой результат означает, что настройки ещё ни разу не сохранялись.
func (r *Repository) GetAllDays(ctx context.Context) ([]domain.DayConfiguration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(dayConfigColumns...).
		From(dayConfigTable).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]domain.DayConfiguration, 0, domain.DaysInWeek)
	for rows.Next() {
		cfg, err := scanDayConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllDays - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllDays - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// UpsertDay создает или обновляет конфигурацию дня недели (уникальна по weekday)
func (r *Repository) UpsertDay(ctx context.Context, cfg *domain.DayConfiguration) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(dayConfigTable).
		Columns(
			"weekday",
			"active",
			"open_time",
			"close_time",
			"lunch_start",
			"lunch_end",
			"interval_minutes",
			"capacity_per_slot",
		).
		Values(
			int(cfg.Weekday),
			cfg.Active,
			cfg.OpenTime,
			cfg.CloseTime,
			cfg.LunchStart,
			cfg.LunchEnd,
			cfg.IntervalMinutes,
			cfg.CapacityPerSlot,
		).
		Suffix(`ON CONFLICT (weekday) DO UPDATE SET
			active = EXCLUDED.active,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			lunch_start = EXCLUDED.lunch_start,
			lunch_end = EXCLUDED.lunch_end,
			interval_minutes = EXCLUDED.interval_minutes,
			capacity_per_slot = EXCLUDED.capacity_per_slot,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertDay - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cfg.UpdatedAt); err != nil {
		return fmt.Errorf("%w: UpsertDay - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSpecialistSchedule возвращает недельный график мастера.
// Дни без записи в таблице считаются выходными.
func (r *Repository) GetSpecialistSchedule(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "works", "start_time", "end_time").
		From(workDayTable).
		Where(squirrel.Eq{"specialist_id": specialistID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialistSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialistSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := &domain.SpecialistSchedule{
		SpecialistID: specialistID,
		Days:         make([]domain.WorkDay, 0, domain.DaysInWeek),
	}

	for rows.Next() {
		var day domain.WorkDay
		var weekday int
		if err := rows.Scan(&weekday, &day.Works, &day.Start, &day.End); err != nil {
			return nil, fmt.Errorf("%w: GetSpecialistSchedule - scan row: %v", ErrScanRow, err)
		}
		day.Weekday = time.Weekday(weekday)
		schedule.Days = append(schedule.Days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSpecialistSchedule - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// ReplaceSpecialistSchedule полностью заменяет график мастера.
// Вызывать внутри транзакции, иначе между удалением и вставкой график будет пустым.
func (r *Repository) ReplaceSpecialistSchedule(ctx context.Context, schedule *domain.SpecialistSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(workDayTable).
		Where(squirrel.Eq{"specialist_id": schedule.SpecialistID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceSpecialistSchedule - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceSpecialistSchedule - execute delete: %v", ErrExecQuery, err)
	}

	if len(schedule.Days) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(workDayTable).
		Columns("specialist_id", "weekday", "works", "start_time", "end_time")

	for _, day := range schedule.Days {
		insertBuilder = insertBuilder.Values(schedule.SpecialistID, int(day.Weekday), day.Works, day.Start, day.End)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceSpecialistSchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceSpecialistSchedule - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDayConfig(row rowScanner) (*domain.DayConfiguration, error) {
	var cfg domain.DayConfiguration
	var weekday int
	var updatedAt sql.NullTime

	err := row.Scan(
		&weekday,
		&cfg.Active,
		&cfg.OpenTime,
		&cfg.CloseTime,
		&cfg.LunchStart,
		&cfg.LunchEnd,
		&cfg.IntervalMinutes,
		&cfg.CapacityPerSlot,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.Weekday = time.Weekday(weekday)
	cfg.UpdatedAt = updatedAt.Time
	return &cfg, nil
}
