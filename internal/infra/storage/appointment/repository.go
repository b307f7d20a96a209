package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/pgerr"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	tableName       = "appointments"
	timestampLayout = "2006-01-02 15:04:05"
)

var columns = []string{
	"id",
	"booking_date",
	"start_time",
	"end_time",
	"specialist_id",
	"specialist_name",
	"status",
	"services",
	"total_duration_minutes",
	"subtotal",
	"discount",
	"total",
	"client_id",
	"client_name",
	"client_phone",
	"client_email",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// serviceRow формат хранения услуги в jsonb-колонке services
type serviceRow struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Пересечение с другой записью мастера отсекается exclusion constraint в БД,
// поэтому даже при гонке двух транзакций вторая получит ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	services, err := encodeServices(a.Services)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"booking_date",
			"start_time",
			"end_time",
			"specialist_id",
			"specialist_name",
			"status",
			"services",
			"total_duration_minutes",
			"subtotal",
			"discount",
			"total",
			"client_id",
			"client_name",
			"client_phone",
			"client_email",
			"notes",
		).
		Values(
			a.BookingDate.Format(domain.DateFormat),
			a.StartTime,
			a.EndTime,
			a.SpecialistID,
			a.SpecialistName,
			a.Status,
			services,
			a.TotalDurationMinutes,
			a.Subtotal,
			a.Discount,
			a.Total,
			a.ClientID,
			a.ClientName,
			a.ClientPhone,
			a.ClientEmail,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, mapWriteError("Create", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, mapReadError("GetByID - scan appointment", ErrScanRow, err)
	}

	return a, nil
}

// GetOccupying возвращает записи на дату, занимающие время (все, кроме отменённых).
// Если specialistID задан - только записи этого мастера.
// Внутри транзакции строки блокируются (FOR UPDATE): это повторная проверка перед записью.
func (r *Repository) GetOccupying(ctx context.Context, date time.Time, specialistID *int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		OrderBy("start_time ASC")

	if specialistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"specialist_id": *specialistID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupying - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError("GetOccupying - execute query", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// List получает записи с фильтрацией.
//
// Примеры:
//
// 1. Все неотменённые записи на дату:
//    filter := domain.AppointmentsFilter{Date: &date}
//
// 2. Записи мастера за период, включая отменённые:
//    filter := domain.AppointmentsFilter{SpecialistID: &id, DateFrom: &from, DateTo: &to, IncludeCancelled: true}
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.SpecialistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"specialist_id": *filter.SpecialistID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	// Конкретный статус важнее флага IncludeCancelled
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC", "id DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateSchedule перезаписывает дату, время, мастера и статус записи (перенос)
func (r *Repository) UpdateSchedule(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("booking_date", a.BookingDate.Format(domain.DateFormat)).
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Set("specialist_id", a.SpecialistID).
		Set("specialist_name", a.SpecialistName).
		Set("status", a.Status).
		Set("reminder_sent_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return mapWriteError("UpdateSchedule", err)
	}

	a.ReminderSentAt = nil
	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// GetDueForReminder возвращает записи, начинающиеся в [from, to], по которым ещё не отправлено напоминание.
// Границы сравниваются как локальное время салона (timestamp without time zone).
func (r *Repository) GetDueForReminder(ctx context.Context, from, to time.Time, limit int) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.ReminderStatuses))
	for i, s := range domain.ReminderStatuses {
		statuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		Where("(booking_date + start_time) BETWEEN ?::timestamp AND ?::timestamp",
			from.Format(timestampLayout), to.Format(timestampLayout)).
		OrderBy("booking_date ASC", "start_time ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDueForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDueForReminder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ClaimReminder помечает напоминание отправленным, если оно ещё не помечено.
// Возвращает false, если запись уже забрал другой обработчик.
func (r *Repository) ClaimReminder(ctx context.Context, id int64, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("reminder_sent_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: ClaimReminder - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// ReleaseReminder снимает отметку, чтобы следующий проход повторил отправку
func (r *Repository) ReleaseReminder(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("reminder_sent_at", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseReminder - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "ReleaseReminder", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// mapWriteError переводит ошибки postgres в ошибки репозитория
func mapWriteError(op string, err error) error {
	switch {
	case pgerr.IsExclusionViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrSlotTaken, op, err)
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	default:
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}
}

// mapReadError отделяет конфликт сериализуемых транзакций (FOR UPDATE внутри SERIALIZABLE)
// от прочих ошибок чтения
func mapReadError(op string, fallback, err error) error {
	if pgerr.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	}
	return fmt.Errorf("%w: %s: %v", fallback, op, err)
}

// encodeServices возвращает строку: []byte lib/pq передал бы как bytea, а не jsonb
func encodeServices(services []domain.AppointmentService) (string, error) {
	rows := make([]serviceRow, len(services))
	for i, s := range services {
		rows[i] = serviceRow{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		}
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeServices, err)
	}
	return string(data), nil
}

func decodeServices(data []byte) ([]domain.AppointmentService, error) {
	var rows []serviceRow
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
	}

	services := make([]domain.AppointmentService, len(rows))
	for i, row := range rows {
		services[i] = domain.AppointmentService{
			ServiceID:       row.ServiceID,
			Name:            row.Name,
			Price:           row.Price,
			DurationMinutes: row.DurationMinutes,
		}
	}
	return services, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var services []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BookingDate,
		&a.StartTime,
		&a.EndTime,
		&a.SpecialistID,
		&a.SpecialistName,
		&a.Status,
		&services,
		&a.TotalDurationMinutes,
		&a.Subtotal,
		&a.Discount,
		&a.Total,
		&a.ClientID,
		&a.ClientName,
		&a.ClientPhone,
		&a.ClientEmail,
		&a.Notes,
		&a.CancellationReason,
		&a.CancelledAt,
		&a.ReminderSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Services, err = decodeServices(services)
	if err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, mapReadError("scanAppointments - scan row", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, mapReadError("scanAppointments - rows error", ErrScanRow, err)
	}

	return appointments, nil
}
