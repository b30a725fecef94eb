package domain

import (
	"errors"
	"fmt"
)

// Role of the caller as asserted by the upstream gateway
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleDoctor, RolePatient, RoleStaff:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Principal the authenticated caller. For doctors and patients UserID is
// their doctor or patient id.
type Principal struct {
	UserID int64
	Role   Role
}

// CanSee reports whether the caller may read the appointment
func (p Principal) CanSee(a *Appointment) bool {
	switch p.Role {
	case RoleStaff:
		return true
	case RoleDoctor:
		return a.DoctorID == p.UserID
	case RolePatient:
		return a.PatientID == p.UserID
	}
	return false
}

// CanManageDoctor reports whether the caller may act on the doctor's agenda and schedule
func (p Principal) CanManageDoctor(doctorID int64) bool {
	return p.Role == RoleStaff || (p.Role == RoleDoctor && p.UserID == doctorID)
}

// CanSeePatient reports whether the caller may list the patient's history
func (p Principal) CanSeePatient(patientID int64) bool {
	return p.Role == RoleStaff || p.Role == RoleDoctor || (p.Role == RolePatient && p.UserID == patientID)
}

// CanBook reports whether the caller may request an appointment between
// the doctor and the patient
func (p Principal) CanBook(doctorID, patientID int64) bool {
	return p.CanSee(&Appointment{DoctorID: doctorID, PatientID: patientID})
}
