package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	DoctorID  int64
	PatientID int64
	Date      time.Time        // Дата приема (без времени)
	StartTime types.TimeString // Время начала, например "10:00"
	EndTime   types.TimeString // Пустое значение: длительность берется из специальности врача
	Type      string           // primera_vez, control, urgencia, telemedicina; пусто = primera_vez
	Motive    string
	Notes     *string
}

// Response модель ответа с созданной записью
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
	Notes     *string
	CreatedAt time.Time
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
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
