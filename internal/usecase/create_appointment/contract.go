package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directory"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания врачей
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context, doctorID int64, weekday *domain.Weekday, includeInactive bool) ([]*domain.WorkingHours, error)
	GetExceptions(ctx context.Context, doctorID int64, from, to *time.Time) ([]*domain.Exception, error)
}

// DirectoryClient интерфейс клиента справочника врачей и пациентов
type DirectoryClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*directory.Doctor, error)
	GetPatient(ctx context.Context, patientID int64) (*directory.Patient, error)
}

// DayLocker блокировка дня врача на время проверки и вставки
type DayLocker interface {
	WithDoctorDayLock(ctx context.Context, doctorID int64, date time.Time, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учет решений о допуске записи
type MetricsRecorder interface {
	RecordAdmission(operation, outcome, kind string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
