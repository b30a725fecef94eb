package transition_appointment

import (
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	transitionAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/transition_appointment"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Action    string  `json:"action"` // confirm, start, complete, cancel, mark_no_show
	Notes     *string `json:"notes,omitempty"`
	Diagnosis *string `json:"diagnosis,omitempty"`
	Treatment *string `json:"treatment,omitempty"`
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	ID             int64   `json:"id"`
	DoctorID       int64   `json:"doctorId"`
	PatientID      int64   `json:"patientId"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	PreviousStatus string  `json:"previousStatus"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	Diagnosis      *string `json:"diagnosis,omitempty"`
	Treatment      *string `json:"treatment,omitempty"`
}

func (r *TransitionRequest) ToUseCaseRequest(appointmentID int64, principal domain.Principal) *transitionAppointment.Request {
	return &transitionAppointment.Request{
		AppointmentID: appointmentID,
		Principal:     principal,
		Action:        r.Action,
		Notes:         r.Notes,
		Diagnosis:     r.Diagnosis,
		Treatment:     r.Treatment,
	}
}

func FromUseCaseResponse(resp *transitionAppointment.Response) *TransitionResponse {
	return &TransitionResponse{
		ID:             resp.ID,
		DoctorID:       resp.DoctorID,
		PatientID:      resp.PatientID,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		PreviousStatus: resp.PreviousStatus,
		Status:         resp.Status,
		Notes:          resp.Notes,
		Diagnosis:      resp.Diagnosis,
		Treatment:      resp.Treatment,
	}
}
