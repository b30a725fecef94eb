package add_exception

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

// AddExceptionRequest HTTP request model
type AddExceptionRequest struct {
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"` // включительно
	Reason      string  `json:"reason"`  // vacaciones, capacitacion, personal, emergencia
	Description *string `json:"description,omitempty"`
}

func (r *AddExceptionRequest) ToServiceRequest(doctorID int64, principal domain.Principal) (*models.AddExceptionRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &models.AddExceptionRequest{
		Principal:   principal,
		DoctorID:    doctorID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      r.Reason,
		Description: r.Description,
	}, nil
}
