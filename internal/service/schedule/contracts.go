package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания врачей
type ScheduleRepository interface {
	CreateWorkingHours(ctx context.Context, w *domain.WorkingHours) (*domain.WorkingHours, error)
	GetWorkingHours(ctx context.Context, doctorID int64, weekday *domain.Weekday, includeInactive bool) ([]*domain.WorkingHours, error)
	DeactivateWorkingHours(ctx context.Context, doctorID, id int64) error
	CreateException(ctx context.Context, e *domain.Exception) (*domain.Exception, error)
	GetExceptions(ctx context.Context, doctorID int64, from, to *time.Time) ([]*domain.Exception, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
