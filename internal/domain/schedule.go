package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// WorkingHours a recurring weekly window in which a doctor accepts appointments
type WorkingHours struct {
	ID        int64
	DoctorID  int64
	Weekday   Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	Active    bool
	CreatedAt time.Time
}

// TimeRange returns the window as a half-open interval
func (w *WorkingHours) TimeRange() TimeRange {
	return TimeRange{Start: w.StartTime, End: w.EndTime}
}

// ExceptionReason category of a doctor's absence
type ExceptionReason string

const (
	ReasonVacation  ExceptionReason = "vacaciones"
	ReasonTraining  ExceptionReason = "capacitacion"
	ReasonPersonal  ExceptionReason = "personal"
	ReasonEmergency ExceptionReason = "emergencia"
)

// ParseExceptionReason validates a reason category
func ParseExceptionReason(s string) (ExceptionReason, error) {
	switch r := ExceptionReason(s); r {
	case ReasonVacation, ReasonTraining, ReasonPersonal, ReasonEmergency:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExceptionReason, s)
	}
}

// Exception a blackout date range [StartDate, EndDate], both ends inclusive
type Exception struct {
	ID          int64
	DoctorID    int64
	StartDate   time.Time
	EndDate     time.Time
	Reason      ExceptionReason
	Description *string
	CreatedAt   time.Time
}

// Covers returns true if date falls inside the exception range
func (e *Exception) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(e.StartDate)) && !d.After(DateOf(e.EndDate))
}
