package create_appointment

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.AppointmentType, error) {
	if req.DoctorID <= 0 {
		return "", fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return "", fmt.Errorf("%w: patientId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return "", fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return "", fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	// Время окончания необязательно
	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return "", fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}

	if utf8.RuneCountInString(req.Motive) > domain.MaxMotiveLength {
		return "", fmt.Errorf("%w: motive is longer than %d characters", ErrInvalidInput, domain.MaxMotiveLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	appointmentType, err := domain.ParseAppointmentType(req.Type)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return appointmentType, nil
}
