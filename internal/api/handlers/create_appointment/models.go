package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID  int64   `json:"doctorId"`
	PatientID int64   `json:"patientId"`
	Date      string  `json:"date"`              // "2026-03-02"
	StartTime string  `json:"startTime"`         // "09:00"
	EndTime   string  `json:"endTime,omitempty"` // "09:30", по умолчанию длительность специальности
	Type      string  `json:"type,omitempty"`
	Motive    string  `json:"motive"`
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID        int64   `json:"id"`
	DoctorID  int64   `json:"doctorId"`
	PatientID int64   `json:"patientId"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Motive    string  `json:"motive"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	var endTime types.TimeString
	if r.EndTime != "" {
		endTime, err = types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
	}

	return &createAppointment.Request{
		DoctorID:  r.DoctorID,
		PatientID: r.PatientID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Type:      r.Type,
		Motive:    r.Motive,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:        resp.ID,
		DoctorID:  resp.DoctorID,
		PatientID: resp.PatientID,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Type:      resp.Type,
		Status:    resp.Status,
		Motive:    resp.Motive,
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
