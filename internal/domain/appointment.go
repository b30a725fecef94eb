package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// AppointmentType represents the kind of visit
type AppointmentType string

const (
	TypeFirstVisit   AppointmentType = "primera_vez"
	TypeFollowUp     AppointmentType = "control"
	TypeUrgent       AppointmentType = "urgencia"
	TypeTelemedicine AppointmentType = "telemedicina"
)

// Appointment represents a committed booking of a patient with a doctor
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	Date      time.Time // calendar date, midnight UTC
	StartTime types.TimeString
	EndTime   types.TimeString
	Type      AppointmentType
	Status    AppointmentStatus
	Motive    string

	// Clinical record, filled in by staff
	Notes     *string
	Diagnosis *string
	Treatment *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeRange returns the half-open interval the appointment occupies
func (a *Appointment) TimeRange() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}

// IsBlocking returns true if the appointment takes part in conflict detection
func (a *Appointment) IsBlocking() bool {
	return a.Status.IsBlocking()
}

// OccupiesTime returns true if the appointment's interval is unavailable for booking
func (a *Appointment) OccupiesTime() bool {
	return a.Status != StatusCancelled
}

// TransitionTo moves the appointment to the target status.
// The appointment is left untouched when the transition is not allowed.
func (a *Appointment) TransitionTo(to AppointmentStatus) error {
	if err := a.Status.ValidateTransition(to); err != nil {
		return err
	}
	a.Status = to
	return nil
}

// IsBlocking returns true for pending, confirmed and in_progress
func (s AppointmentStatus) IsBlocking() bool {
	return slices.Contains(BlockingStatuses, s)
}

// ParseAppointmentStatus validates a status string
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !slices.Contains(AllStatuses, status) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// ParseAppointmentType validates a type string; empty means first visit
func ParseAppointmentType(s string) (AppointmentType, error) {
	switch t := AppointmentType(s); t {
	case "":
		return TypeFirstVisit, nil
	case TypeFirstVisit, TypeFollowUp, TypeUrgent, TypeTelemedicine:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAppointmentType, s)
	}
}

// AppointmentsFilter filter for listing a doctor's or patient's appointments
type AppointmentsFilter struct {
	DoctorID  *int64
	PatientID *int64
	StartDate *time.Time          // inclusive, nil = unbounded
	EndDate   *time.Time          // inclusive, nil = unbounded
	Statuses  []AppointmentStatus // empty = all statuses
}

// IsSingleDay returns true when the filter targets exactly one calendar date
func (f AppointmentsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

// DateOf truncates t to its calendar date in t's location and returns it as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
