package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directory"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

const operation = "create"

// Options правила записи из конфигурации
type Options struct {
	Location                  *time.Location
	DefaultAppointmentMinutes int
}

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	directory       DirectoryClient
	locker          DayLocker
	txManager       TransactionManager
	metrics         MetricsRecorder
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// directory может быть nil: тогда врач не проверяется, а длительность берется из Options.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	directory DirectoryClient,
	locker DayLocker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	options Options,
	logger Logger,
) *UseCase {
	if options.DefaultAppointmentMinutes <= 0 {
		options.DefaultAppointmentMinutes = domain.DefaultAppointmentMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		directory:       directory,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка правил и вставка выполняются под блокировкой дня врача
// в сериализуемой транзакции, поэтому две записи не могут пересечься.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: doctor=%d, patient=%d, date=%s, time=%s-%s",
		req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	result, err := uc.execute(ctx, req)
	uc.record(err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)
	return fromDomain(result), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	appointmentType, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOf(req.Date)

	// 2. Проверяем врача и пациента в справочнике, определяем длительность приема
	minutes, err := uc.resolveParticipants(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Время окончания по умолчанию
	endTime := req.EndTime
	if endTime.IsZero() {
		endTime, err = req.StartTime.AddMinutes(minutes)
		if err != nil {
			uc.logger.Warn("CreateAppointment: start=%s + %d minutes does not fit the day", req.StartTime, minutes)
			return nil, fmt.Errorf("%w: appointment must end before midnight", ErrInvalidInput)
		}
	}

	proposal := scheduling.Proposal{
		DoctorID:  req.DoctorID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   endTime,
	}
	validator := scheduling.NewValidator(uc.timeProvider, uc.options.Location)

	var result *domain.Appointment

	// 4. Проверка и вставка под блокировкой дня врача
	err = uc.locker.WithDoctorDayLock(ctx, req.DoctorID, date, func(lockCtx context.Context) error {
		txErr := uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 4.1. Загружаем расписание и записи дня (строки записей блокируются)
			snapshot, err := uc.loadSnapshot(txCtx, req.DoctorID, date)
			if err != nil {
				return err
			}

			// 4.2. Проверяем правила допуска
			if err := validator.Validate(snapshot, proposal); err != nil {
				uc.logger.Warn("CreateAppointment: rejected doctor=%d date=%s %s: %v",
					req.DoctorID, date.Format(domain.DateFormat), proposal.TimeRange(), err)
				return err
			}

			// 4.3. Сохраняем запись
			created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
				DoctorID:  req.DoctorID,
				PatientID: req.PatientID,
				Date:      date,
				StartTime: req.StartTime,
				EndTime:   endTime,
				Type:      appointmentType,
				Status:    domain.StatusPending,
				Motive:    req.Motive,
				Notes:     req.Notes,
			})
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
					uc.logger.Warn("CreateAppointment: unique slot violation doctor=%d date=%s start=%s",
						req.DoctorID, date.Format(domain.DateFormat), req.StartTime)
					return err
				}
				uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
			}

			result = created
			return nil
		})
		if errors.Is(txErr, appointmentRepo.ErrDuplicateSlot) {
			// транзакция уже откатена, занявшую слот запись читаем вне ее
			return uc.slotConflict(lockCtx, req.DoctorID, date, req.StartTime)
		}
		return txErr
	})
	if err != nil {
		return nil, uc.mapLockError(err)
	}

	return result, nil
}

// resolveParticipants проверяет врача и пациента, возвращает длительность приема в минутах
func (uc *UseCase) resolveParticipants(ctx context.Context, req *Request) (int, error) {
	if uc.directory == nil {
		return uc.options.DefaultAppointmentMinutes, nil
	}

	doctor, err := uc.directory.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%d not found", req.DoctorID)
			return 0, ErrDoctorNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return 0, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.Active {
		uc.logger.Warn("CreateAppointment: doctor id=%d is inactive", req.DoctorID)
		return 0, ErrDoctorInactive
	}

	if _, err := uc.directory.GetPatient(ctx, req.PatientID); err != nil {
		if errors.Is(err, directory.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
			return 0, ErrPatientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return 0, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	return doctor.AppointmentMinutes(uc.options.DefaultAppointmentMinutes), nil
}

func (uc *UseCase) loadSnapshot(txCtx context.Context, doctorID int64, date time.Time) (scheduling.Snapshot, error) {
	appointments, err := uc.appointmentRepo.GetWithFilter(txCtx, domain.AppointmentsFilter{
		DoctorID:  &doctorID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	weekday := domain.WeekdayOf(date)
	hours, err := uc.scheduleRepo.GetWorkingHours(txCtx, doctorID, &weekday, false)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get working hours: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	exceptions, err := uc.scheduleRepo.GetExceptions(txCtx, doctorID, &date, &date)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get exceptions: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get exceptions: %w", ErrInternal, err)
	}

	return scheduling.NewSnapshot(hours, exceptions, appointments), nil
}

// slotConflict называет запись, уже начинающуюся в то же время у врача.
// Если ее не удалось прочитать, конфликт возвращается без интервала.
func (uc *UseCase) slotConflict(ctx context.Context, doctorID int64, date time.Time, start types.TimeString) error {
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		DoctorID:  &doctorID,
		StartDate: &date,
		EndDate:   &date,
		Statuses:  domain.BlockingStatuses,
	})
	if err != nil {
		uc.logger.Warn("CreateAppointment: failed to read conflicting appointment: %v", err)
		return &domain.SchedulingConflictError{}
	}

	for _, a := range appointments {
		if a.StartTime == start && a.IsBlocking() {
			return &domain.SchedulingConflictError{AppointmentID: a.ID, Conflict: a.TimeRange()}
		}
	}
	return &domain.SchedulingConflictError{}
}

func (uc *UseCase) mapLockError(err error) error {
	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("CreateAppointment: doctor day lock is busy")
		return ErrDoctorDayBusy
	case errors.Is(err, lock.ErrLockUnavailable):
		uc.logger.Error("CreateAppointment: lock backend unavailable: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return err
}

func (uc *UseCase) record(err error) {
	if uc.metrics == nil {
		return
	}
	switch rejection, ok := domain.AsRejection(err); {
	case err == nil:
		uc.metrics.RecordAdmission(operation, "admitted", "")
	case ok:
		uc.metrics.RecordAdmission(operation, "rejected", rejection.Kind())
	case errors.Is(err, ErrInternal):
		uc.metrics.RecordAdmission(operation, "error", "")
	default:
		uc.metrics.RecordAdmission(operation, "refused", "")
	}
}
