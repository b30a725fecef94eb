package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	Principal     domain.Principal
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString // Пустое значение: сохраняется прежняя длительность
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Type      string
	Status    string
	Motive    string
	UpdatedAt time.Time
}

func fromDomain(a *domain.Appointment) *Response {
	return &Response{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Type:      string(a.Type),
		Status:    string(a.Status),
		Motive:    a.Motive,
		UpdatedAt: a.UpdatedAt,
	}
}
