package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Service сервис управления расписанием врачей
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// AddWorkingHours добавляет окно рабочего времени
// Окно не должно пересекаться с активными окнами того же дня недели; смежные окна допустимы
func (s *Service) AddWorkingHours(ctx context.Context, req *models.AddWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("AddWorkingHours: doctor=%d, weekday=%d, %s-%s by user=%d",
		req.DoctorID, req.Weekday, req.StartTime, req.EndTime, req.Principal.UserID)

	// 1. Проверяем права доступа
	if !req.Principal.CanManageDoctor(req.DoctorID) {
		s.logger.Warn("AddWorkingHours: access denied for user=%d to doctor=%d", req.Principal.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем входные данные
	candidate, err := toWorkingHours(req)
	if err != nil {
		s.logger.Warn("AddWorkingHours: validation failed: %v", err)
		return nil, err
	}

	var result *domain.WorkingHours

	// 3. Проверка пересечений и вставка в сериализуемой транзакции
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.scheduleRepo.GetWorkingHours(txCtx, req.DoctorID, &candidate.Weekday, false)
		if err != nil {
			s.logger.Error("AddWorkingHours: failed to get working hours: %v", err)
			return fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
		}

		if err := scheduling.NewWorkingHoursCalendar(existing).CheckCandidate(*candidate); err != nil {
			s.logger.Warn("AddWorkingHours: rejected for doctor=%d: %v", req.DoctorID, err)
			return err
		}

		created, err := s.scheduleRepo.CreateWorkingHours(txCtx, candidate)
		if err != nil {
			s.logger.Error("AddWorkingHours: failed to create working hours: %v", err)
			return fmt.Errorf("%w: failed to create working hours: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddWorkingHours: created working hours id=%d for doctor=%d", result.ID, req.DoctorID)
	return models.FromDomainWorkingHours(result), nil
}

// ListWorkingHours возвращает окна врача, упорядоченные по дню недели и началу
func (s *Service) ListWorkingHours(ctx context.Context, doctorID int64, includeInactive bool) (*models.WorkingHoursListResponse, error) {
	s.logger.Info("ListWorkingHours: doctor=%d, includeInactive=%t", doctorID, includeInactive)

	hours, err := s.scheduleRepo.GetWorkingHours(ctx, doctorID, nil, includeInactive)
	if err != nil {
		s.logger.Error("ListWorkingHours: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ListWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingHoursList(hours), nil
}

// DeactivateWorkingHours выключает окно. Существующие записи не затрагиваются.
func (s *Service) DeactivateWorkingHours(ctx context.Context, principal domain.Principal, doctorID, id int64) error {
	s.logger.Info("DeactivateWorkingHours: doctor=%d, id=%d by user=%d", doctorID, id, principal.UserID)

	if !principal.CanManageDoctor(doctorID) {
		s.logger.Warn("DeactivateWorkingHours: access denied for user=%d to doctor=%d", principal.UserID, doctorID)
		return ErrAccessDenied
	}

	if err := s.scheduleRepo.DeactivateWorkingHours(ctx, doctorID, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrWorkingHoursNotFound) {
			s.logger.Warn("DeactivateWorkingHours: working hours id=%d of doctor=%d not found", id, doctorID)
			return ErrWorkingHoursNotFound
		}
		s.logger.Error("DeactivateWorkingHours: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateWorkingHours: working hours id=%d deactivated", id)
	return nil
}

// AddException добавляет период отсутствия врача
func (s *Service) AddException(ctx context.Context, req *models.AddExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("AddException: doctor=%d, %s..%s, reason=%s by user=%d", req.DoctorID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.Reason, req.Principal.UserID)

	if !req.Principal.CanManageDoctor(req.DoctorID) {
		s.logger.Warn("AddException: access denied for user=%d to doctor=%d", req.Principal.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	reason, err := domain.ParseExceptionReason(req.Reason)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > domain.MaxDescriptionLen {
		return nil, fmt.Errorf("%w: description is longer than %d characters", ErrInvalidInput, domain.MaxDescriptionLen)
	}

	exception := &domain.Exception{
		DoctorID:    req.DoctorID,
		StartDate:   domain.DateOf(req.StartDate),
		EndDate:     domain.DateOf(req.EndDate),
		Reason:      reason,
		Description: req.Description,
	}
	if err := scheduling.ValidateException(*exception); err != nil {
		s.logger.Warn("AddException: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.CreateException(ctx, exception)
	if err != nil {
		s.logger.Error("AddException: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: AddException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddException: created exception id=%d for doctor=%d", created.ID, req.DoctorID)
	return models.FromDomainException(created), nil
}

// ListExceptions возвращает исключения врача, пересекающиеся с периодом
func (s *Service) ListExceptions(ctx context.Context, doctorID int64, from, to *time.Time) (*models.ExceptionListResponse, error) {
	s.logger.Info("ListExceptions: doctor=%d", doctorID)

	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	exceptions, err := s.scheduleRepo.GetExceptions(ctx, doctorID, from, to)
	if err != nil {
		s.logger.Error("ListExceptions: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExceptionList(exceptions), nil
}

// Вспомогательные методы

func toWorkingHours(req *models.AddWorkingHoursRequest) (*domain.WorkingHours, error) {
	weekday := domain.Weekday(req.Weekday)
	if !weekday.Valid() {
		return nil, fmt.Errorf("%w: weekday must be between 0 (Monday) and 6 (Sunday)", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	return &domain.WorkingHours{
		DoctorID:  req.DoctorID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}, nil
}
