package transition_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
)

// UseCase use case для смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	options Options,
	logger Logger,
) *UseCase {
	if options.Location == nil {
		options.Location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет действие над записью.
// Правила допуска (рабочее время, пересечения) здесь не проверяются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionAppointment: id=%d, action=%s, by user=%d (%s)",
		req.AppointmentID, req.Action, req.Principal.UserID, req.Principal.Role)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		uc.logger.Warn("TransitionAppointment: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	target := action.Target()

	var (
		result   *domain.Appointment
		previous domain.AppointmentStatus
	)

	// 2. Чтение с блокировкой строки и условное обновление в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("TransitionAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("TransitionAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 2.1. Права доступа
		if !canPerform(req.Principal, appointment, action) {
			uc.logger.Warn("TransitionAppointment: access denied for user=%d to %s appointment id=%d",
				req.Principal.UserID, action, appointment.ID)
			return ErrAccessDenied
		}

		// 2.2. Допустимость перехода
		previous = appointment.Status
		if err := appointment.TransitionTo(target); err != nil {
			uc.logger.Warn("TransitionAppointment: appointment id=%d: %v", appointment.ID, err)
			return err
		}

		// 2.3. Дополнительные правила из конфигурации
		if err := uc.checkRules(appointment, action, req); err != nil {
			return err
		}

		// 2.4. Сохраняем клинические поля при завершении
		if action == domain.ActionComplete && hasClinicalFields(req) {
			if err := uc.appointmentRepo.UpdateClinicalNotes(txCtx, appointment.ID, req.Notes, req.Diagnosis, req.Treatment); err != nil {
				uc.logger.Error("TransitionAppointment: failed to save clinical notes id=%d: %v", appointment.ID, err)
				return fmt.Errorf("%w: failed to save clinical notes: %w", ErrInternal, err)
			}
			mergeClinicalFields(appointment, req)
		}

		// 2.5. Меняем статус, только если он не изменился с момента чтения
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appointment.ID, previous, target); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusChanged) {
				uc.logger.Warn("TransitionAppointment: status of id=%d changed concurrently", appointment.ID)
				return ErrConcurrentUpdate
			}
			uc.logger.Error("TransitionAppointment: failed to update status id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionAppointment: appointment id=%d %s -> %s", result.ID, previous, result.Status)

	return &Response{
		ID:             result.ID,
		DoctorID:       result.DoctorID,
		PatientID:      result.PatientID,
		Date:           result.Date,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		PreviousStatus: string(previous),
		Status:         string(result.Status),
		Notes:          result.Notes,
		Diagnosis:      result.Diagnosis,
		Treatment:      result.Treatment,
	}, nil
}

func (uc *UseCase) checkRules(a *domain.Appointment, action domain.Action, req *Request) error {
	switch action {
	case domain.ActionMarkNoShow:
		if !uc.options.NoShowRequiresPastDate {
			return nil
		}
		start := a.StartTime.On(a.Date)
		now := uc.timeProvider.Now().In(uc.options.Location)
		// время приема задано в часовом поясе клиники
		startInLocation := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), start.Minute(), 0, 0, uc.options.Location)
		if now.Before(startInLocation) {
			uc.logger.Warn("TransitionAppointment: no-show for id=%d before its start %s", a.ID, startInLocation)
			return ErrNoShowTooEarly
		}
	case domain.ActionComplete:
		if uc.options.RequireClinicalFieldsOnComplete && isBlank(req.Diagnosis) && isBlank(a.Diagnosis) {
			return ErrClinicalFieldsRequired
		}
	}
	return nil
}

// canPerform персонал выполняет любые действия, врач только над своими записями,
// пациент может лишь отменить свою запись
func canPerform(p domain.Principal, a *domain.Appointment, action domain.Action) bool {
	switch p.Role {
	case domain.RoleStaff:
		return true
	case domain.RoleDoctor:
		return a.DoctorID == p.UserID
	case domain.RolePatient:
		return a.PatientID == p.UserID && action == domain.ActionCancel
	}
	return false
}

func hasClinicalFields(req *Request) bool {
	return req.Notes != nil || req.Diagnosis != nil || req.Treatment != nil
}

func mergeClinicalFields(a *domain.Appointment, req *Request) {
	if req.Notes != nil {
		a.Notes = req.Notes
	}
	if req.Diagnosis != nil {
		a.Diagnosis = req.Diagnosis
	}
	if req.Treatment != nil {
		a.Treatment = req.Treatment
	}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
