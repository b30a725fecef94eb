package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

const operation = "reschedule"

// UseCase use case для переноса записи на другую дату или время
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	locker          DayLocker
	txManager       TransactionManager
	metrics         MetricsRecorder
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	locker DayLocker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись. Новые дата и время проходят те же правила, что и при создании,
// при этом сама запись в проверке пересечений не участвует.
// Проверка даты в прошлом выполняется, только если дата меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, date=%s, time=%s-%s, by user=%d (%s)",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime,
		req.Principal.UserID, req.Principal.Role)

	result, err := uc.execute(ctx, req)
	uc.record(err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s",
		result.ID, result.Date.Format(domain.DateFormat), result.TimeRange())
	return fromDomain(result), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись, чтобы узнать врача и проверить права
	existing, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !req.Principal.CanSee(existing) {
		uc.logger.Warn("RescheduleAppointment: access denied for user=%d to appointment id=%d",
			req.Principal.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	date := domain.DateOf(req.Date)
	validator := scheduling.NewValidator(uc.timeProvider, uc.location)

	var result *domain.Appointment

	// 3. Проверка и обновление под блокировкой нового дня врача
	err = uc.locker.WithDoctorDayLock(ctx, existing.DoctorID, date, func(lockCtx context.Context) error {
		txErr := uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 3.1. Перечитываем запись с блокировкой строки
			current, err := uc.getAppointment(txCtx, req.AppointmentID)
			if err != nil {
				return err
			}
			if current.Status != domain.StatusPending && current.Status != domain.StatusConfirmed {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", current.ID, current.Status)
				return ErrNotReschedulable
			}

			// 3.2. Время окончания по умолчанию сохраняет длительность
			endTime := req.EndTime
			if endTime.IsZero() {
				endTime, err = req.StartTime.AddMinutes(current.TimeRange().Minutes())
				if err != nil {
					return fmt.Errorf("%w: appointment must end before midnight", ErrInvalidInput)
				}
			}

			// 3.3. Загружаем расписание и записи нового дня
			snapshot, err := uc.loadSnapshot(txCtx, current.DoctorID, date)
			if err != nil {
				return err
			}

			opts := []scheduling.ValidateOption{scheduling.ExcludingAppointment(current.ID)}
			if date.Equal(domain.DateOf(current.Date)) {
				opts = append(opts, scheduling.SkipPastDateCheck())
			}

			proposal := scheduling.Proposal{
				DoctorID:  current.DoctorID,
				Date:      date,
				StartTime: req.StartTime,
				EndTime:   endTime,
			}
			if err := validator.Validate(snapshot, proposal, opts...); err != nil {
				uc.logger.Warn("RescheduleAppointment: rejected id=%d to %s %s: %v",
					current.ID, date.Format(domain.DateFormat), proposal.TimeRange(), err)
				return err
			}

			// 3.4. Сохраняем новые дату и время
			if err := uc.appointmentRepo.UpdateSchedule(txCtx, current.ID, date, req.StartTime, endTime); err != nil {
				if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
					uc.logger.Warn("RescheduleAppointment: unique slot violation id=%d date=%s start=%s",
						current.ID, date.Format(domain.DateFormat), req.StartTime)
					return err
				}
				if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
					return ErrAppointmentNotFound
				}
				uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", current.ID, err)
				return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
			}

			current.Date = date
			current.StartTime = req.StartTime
			current.EndTime = endTime
			current.UpdatedAt = uc.timeProvider.Now()
			result = current
			return nil
		})
		if errors.Is(txErr, appointmentRepo.ErrDuplicateSlot) {
			return uc.slotConflict(lockCtx, existing.DoctorID, existing.ID, date, req.StartTime)
		}
		return txErr
	})
	if err != nil {
		switch {
		case errors.Is(err, lock.ErrLockNotAcquired):
			return nil, ErrDoctorDayBusy
		case errors.Is(err, lock.ErrLockUnavailable):
			uc.logger.Error("RescheduleAppointment: lock backend unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	return result, nil
}

func (uc *UseCase) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}
	return a, nil
}

func (uc *UseCase) loadSnapshot(txCtx context.Context, doctorID int64, date time.Time) (scheduling.Snapshot, error) {
	appointments, err := uc.appointmentRepo.GetWithFilter(txCtx, domain.AppointmentsFilter{
		DoctorID:  &doctorID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	weekday := domain.WeekdayOf(date)
	hours, err := uc.scheduleRepo.GetWorkingHours(txCtx, doctorID, &weekday, false)
	if err != nil {
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	exceptions, err := uc.scheduleRepo.GetExceptions(txCtx, doctorID, &date, &date)
	if err != nil {
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get exceptions: %w", ErrInternal, err)
	}

	return scheduling.NewSnapshot(hours, exceptions, appointments), nil
}

// slotConflict называет другую запись врача, начинающуюся в то же время
func (uc *UseCase) slotConflict(ctx context.Context, doctorID, appointmentID int64, date time.Time, start types.TimeString) error {
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		DoctorID:  &doctorID,
		StartDate: &date,
		EndDate:   &date,
		Statuses:  domain.BlockingStatuses,
	})
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to read conflicting appointment: %v", err)
		return &domain.SchedulingConflictError{}
	}

	for _, a := range appointments {
		if a.ID != appointmentID && a.StartTime == start && a.IsBlocking() {
			return &domain.SchedulingConflictError{AppointmentID: a.ID, Conflict: a.TimeRange()}
		}
	}
	return &domain.SchedulingConflictError{}
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

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}
	return nil
}
