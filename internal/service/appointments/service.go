package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

// Service сервис для чтения записей и ведения клинических полей
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пациент видит только свои записи, врач только записи к себе, персонал все
func (s *Service) GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d (%s)", id, principal.UserID, principal.Role)

	appointment, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !principal.CanSee(appointment) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", principal.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetDoctorAppointments получает расписание врача за период
// Доступно персоналу и самому врачу
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: doctor=%d, user=%d, statuses=%v", req.DoctorID, req.Principal.UserID, req.Statuses)

	if !req.Principal.CanManageDoctor(req.DoctorID) {
		s.logger.Warn("GetDoctorAppointments: access denied for user=%d to doctor=%d", req.Principal.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetDoctorAppointments: invalid filter for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: successfully fetched %d appointments for doctor=%d", len(appointments), req.DoctorID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetPatientAppointments получает историю записей пациента, новые первыми
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: patient=%d, user=%d, statuses=%v", req.PatientID, req.Principal.UserID, req.Statuses)

	if !req.Principal.CanSeePatient(req.PatientID) {
		s.logger.Warn("GetPatientAppointments: access denied for user=%d to patient=%d", req.Principal.UserID, req.PatientID)
		return nil, ErrAccessDenied
	}

	statuses, err := models.ToDomainStatuses(req.Statuses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter := domain.AppointmentsFilter{PatientID: &req.PatientID, Statuses: statuses}
	// врач видит только записи пациента к себе
	if req.Principal.Role == domain.RoleDoctor {
		filter.DoctorID = &req.Principal.UserID
	}

	appointments, err := s.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: successfully fetched %d appointments for patient=%d", len(appointments), req.PatientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateClinicalNotes изменяет заметки, диагноз и лечение без смены статуса
// Доступно персоналу и врачу записи
func (s *Service) UpdateClinicalNotes(ctx context.Context, id int64, req *models.UpdateClinicalNotesRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateClinicalNotes: appointment id=%d by user=%d (%s)", id, req.Principal.UserID, req.Principal.Role)

	if req.Notes == nil && req.Diagnosis == nil && req.Treatment == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	for _, field := range []*string{req.Notes, req.Diagnosis, req.Treatment} {
		if field != nil && utf8.RuneCountInString(*field) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: clinical field is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
	}

	appointment, err := s.getAppointment(ctx, id, "UpdateClinicalNotes")
	if err != nil {
		return nil, err
	}

	if !req.Principal.CanManageDoctor(appointment.DoctorID) {
		s.logger.Warn("UpdateClinicalNotes: access denied for user=%d to appointment id=%d", req.Principal.UserID, id)
		return nil, ErrAccessDenied
	}

	if appointment.Status == domain.StatusCancelled {
		s.logger.Warn("UpdateClinicalNotes: appointment id=%d is cancelled", id)
		return nil, ErrNotEditable
	}

	if err := s.appointmentRepo.UpdateClinicalNotes(ctx, id, req.Notes, req.Diagnosis, req.Treatment); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateClinicalNotes: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateClinicalNotes - repository error: %v", ErrInternal, err)
	}

	if req.Notes != nil {
		appointment.Notes = req.Notes
	}
	if req.Diagnosis != nil {
		appointment.Diagnosis = req.Diagnosis
	}
	if req.Treatment != nil {
		appointment.Treatment = req.Treatment
	}

	s.logger.Info("UpdateClinicalNotes: successfully updated appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}
