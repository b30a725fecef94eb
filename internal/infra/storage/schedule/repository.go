package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/psqlbuilder"
)

const (
	tableWorkingHours = "working_hours"
	tableExceptions   = "doctor_exceptions"
)

// Repository репозиторий расписания врачей: рабочие окна и исключения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWorkingHours сохраняет новое окно рабочего времени
func (r *Repository) CreateWorkingHours(ctx context.Context, w *domain.WorkingHours) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableWorkingHours).
		Columns("doctor_id", "weekday", "start_time", "end_time", "active").
		Values(w.DoctorID, int(w.Weekday), w.StartTime, w.EndTime, w.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingHours - execute insert: %w", ErrExecQuery, err)
	}
	w.CreatedAt = createdAt.Time

	return w, nil
}

// GetWorkingHours возвращает окна врача. weekday = nil означает все дни недели.
func (r *Repository) GetWorkingHours(ctx context.Context, doctorID int64, weekday *domain.Weekday, includeInactive bool) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "doctor_id", "weekday", "start_time", "end_time", "active", "created_at").
		From(tableWorkingHours).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("weekday ASC", "start_time ASC")

	if weekday != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": int(*weekday)})
	}
	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.WorkingHours, 0)
	for rows.Next() {
		var (
			w         domain.WorkingHours
			weekdayN  int
			createdAt sql.NullTime
		)
		if err := rows.Scan(&w.ID, &w.DoctorID, &weekdayN, &w.StartTime, &w.EndTime, &w.Active, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %w", ErrScanRow, err)
		}
		w.Weekday = domain.Weekday(weekdayN)
		w.CreatedAt = createdAt.Time
		hours = append(hours, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}

// DeactivateWorkingHours выключает окно. Окно другого врача считается не найденным.
func (r *Repository) DeactivateWorkingHours(ctx context.Context, doctorID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableWorkingHours).
		Set("active", false).
		Where(squirrel.Eq{"id": id, "doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeactivateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeactivateWorkingHours - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeactivateWorkingHours - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrWorkingHoursNotFound
	}

	return nil
}

// CreateException сохраняет новое исключение
func (r *Repository) CreateException(ctx context.Context, e *domain.Exception) (*domain.Exception, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableExceptions).
		Columns("doctor_id", "start_date", "end_date", "reason", "description").
		Values(
			e.DoctorID,
			e.StartDate.Format(domain.DateFormat),
			e.EndDate.Format(domain.DateFormat),
			e.Reason,
			e.Description,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %w", ErrExecQuery, err)
	}
	e.CreatedAt = createdAt.Time

	return e, nil
}

// GetExceptions возвращает исключения врача, пересекающиеся с периодом [from, to].
// nil-границы не ограничивают выборку.
func (r *Repository) GetExceptions(ctx context.Context, doctorID int64, from, to *time.Time) ([]*domain.Exception, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "doctor_id", "start_date", "end_date", "reason", "description", "created_at").
		From(tableExceptions).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("start_date ASC", "id ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"end_date": from.Format(domain.DateFormat)})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_date": to.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.Exception, 0)
	for rows.Next() {
		var (
			e          domain.Exception
			start, end time.Time
			createdAt  sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.DoctorID, &start, &end, &e.Reason, &e.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetExceptions - scan row: %w", ErrScanRow, err)
		}
		e.StartDate = domain.DateOf(start)
		e.EndDate = domain.DateOf(end)
		e.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - rows error: %w", ErrScanRow, err)
	}

	return exceptions, nil
}
