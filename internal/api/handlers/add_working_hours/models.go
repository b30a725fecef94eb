package add_working_hours

import (
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

// AddWorkingHoursRequest HTTP request model
type AddWorkingHoursRequest struct {
	Weekday   *int   `json:"weekday"` // 0 = понедельник ... 6 = воскресенье
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (r *AddWorkingHoursRequest) ToServiceRequest(doctorID int64, principal domain.Principal) *models.AddWorkingHoursRequest {
	return &models.AddWorkingHoursRequest{
		Principal: principal,
		DoctorID:  doctorID,
		Weekday:   *r.Weekday,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}
