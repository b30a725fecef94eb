package transition_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Options правила переходов из конфигурации
type Options struct {
	Location                        *time.Location
	NoShowRequiresPastDate          bool
	RequireClinicalFieldsOnComplete bool
}

// Request модель запроса на смену статуса
type Request struct {
	AppointmentID int64
	Principal     domain.Principal
	Action        string // confirm, start, complete, cancel, mark_no_show

	// Клинические поля, сохраняются только при complete
	Notes     *string
	Diagnosis *string
	Treatment *string
}

// Response модель ответа с новым статусом
type Response struct {
	ID             int64
	DoctorID       int64
	PatientID      int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	PreviousStatus string
	Status         string
	Notes          *string
	Diagnosis      *string
	Treatment      *string
}
