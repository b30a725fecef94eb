package update_clinical_notes

import (
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

// UpdateClinicalNotesRequest HTTP request model. Отсутствующие поля не меняются.
type UpdateClinicalNotesRequest struct {
	Notes     *string `json:"notes,omitempty"`
	Diagnosis *string `json:"diagnosis,omitempty"`
	Treatment *string `json:"treatment,omitempty"`
}

func (r *UpdateClinicalNotesRequest) ToServiceRequest(principal domain.Principal) *models.UpdateClinicalNotesRequest {
	return &models.UpdateClinicalNotesRequest{
		Principal: principal,
		Notes:     r.Notes,
		Diagnosis: r.Diagnosis,
		Treatment: r.Treatment,
	}
}
