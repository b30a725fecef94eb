package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidPeriod возвращается, когда конец периода раньше начала
	ErrInvalidPeriod = errors.New("end date is before start date")
)

// Request модели

// GetDoctorAppointmentsRequest запрос на получение расписания врача
type GetDoctorAppointmentsRequest struct {
	Principal domain.Principal
	DoctorID  int64
	StartDate *time.Time // Начало периода (опционально)
	EndDate   *time.Time // Конец периода (опционально)
	Statuses  []string   // Фильтр по статусам (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		DoctorID:  &r.DoctorID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, ErrInvalidPeriod
	}

	statuses, err := ToDomainStatuses(r.Statuses)
	if err != nil {
		return filter, err
	}
	filter.Statuses = statuses

	return filter, nil
}

// GetPatientAppointmentsRequest запрос на получение истории пациента
type GetPatientAppointmentsRequest struct {
	Principal domain.Principal
	PatientID int64
	Statuses  []string
}

// UpdateClinicalNotesRequest запрос на изменение клинических полей.
// nil-поля не меняются.
type UpdateClinicalNotesRequest struct {
	Principal domain.Principal
	Notes     *string
	Diagnosis *string
	Treatment *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        int64   `json:"id"`
	DoctorID  int64   `json:"doctorId"`
	PatientID int64   `json:"patientId"`
	Date      string  `json:"date"`      // "2026-03-02"
	StartTime string  `json:"startTime"` // "09:00"
	EndTime   string  `json:"endTime"`   // "09:30"
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Motive    string  `json:"motive"`
	Notes     *string `json:"notes,omitempty"`
	Diagnosis *string `json:"diagnosis,omitempty"`
	Treatment *string `json:"treatment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date.Format(domain.DateFormat),
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		Type:      string(a.Type),
		Status:    string(a.Status),
		Motive:    a.Motive,
		Notes:     a.Notes,
		Diagnosis: a.Diagnosis,
		Treatment: a.Treatment,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainStatuses конвертирует строки в статусы с валидацией
func ToDomainStatuses(statuses []string) ([]domain.AppointmentStatus, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	result := make([]domain.AppointmentStatus, 0, len(statuses))
	for _, s := range statuses {
		status, err := domain.ParseAppointmentStatus(s)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		result = append(result, status)
	}

	return result, nil
}
