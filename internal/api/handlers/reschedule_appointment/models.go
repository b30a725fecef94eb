package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"` // пусто: длительность сохраняется
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctorId"`
	PatientID int64  `json:"patientId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Motive    string `json:"motive"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64, principal domain.Principal) (*rescheduleAppointment.Request, error) {
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
		if endTime, err = types.NewTimeStringFromString(r.EndTime); err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Principal:     principal,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
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
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
