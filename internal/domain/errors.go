package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Typed rejection errors unwrap to one of these.
var (
	ErrPastDate            = errors.New("appointment date is in the past")
	ErrInvalidTimeRange    = errors.New("end time must be after start time")
	ErrSchedulingConflict  = errors.New("doctor already has an appointment at this time")
	ErrOutsideWorkingHours = errors.New("appointment is outside the doctor's working hours")
	ErrDoctorUnavailable   = errors.New("doctor is unavailable on this date")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrWorkingHoursOverlap = errors.New("working hours overlap an existing window")

	ErrUnknownStatus          = errors.New("unknown appointment status")
	ErrUnknownAppointmentType = errors.New("unknown appointment type")
	ErrUnknownAction          = errors.New("unknown appointment action")
	ErrUnknownExceptionReason = errors.New("unknown exception reason")
)

// Rejection kinds
const (
	KindPastDate            = "past_date"
	KindInvalidTimeRange    = "invalid_time_range"
	KindSchedulingConflict  = "scheduling_conflict"
	KindOutsideWorkingHours = "outside_working_hours"
	KindDoctorUnavailable   = "doctor_unavailable"
	KindInvalidTransition   = "invalid_transition"
	KindWorkingHoursOverlap = "working_hours_overlap"
)

// Fields a rejection can be attributed to
const (
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldStatus    = "status"
)

// Rejection a recoverable, field-scoped business rule violation
type Rejection interface {
	error
	Kind() string
	Field() string
}

// AsRejection extracts a Rejection from an error chain
func AsRejection(err error) (Rejection, bool) {
	var r Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// PastDateError the proposed date is before today
type PastDateError struct {
	Date  time.Time
	Today time.Time
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("%s: %s is before %s", ErrPastDate, e.Date.Format(DateFormat), e.Today.Format(DateFormat))
}
func (e *PastDateError) Unwrap() error { return ErrPastDate }
func (e *PastDateError) Kind() string  { return KindPastDate }
func (e *PastDateError) Field() string { return FieldDate }

// InvalidTimeRangeError end is not after start
type InvalidTimeRangeError struct {
	Range TimeRange
}

func (e *InvalidTimeRangeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTimeRange, e.Range)
}
func (e *InvalidTimeRangeError) Unwrap() error { return ErrInvalidTimeRange }
func (e *InvalidTimeRangeError) Kind() string  { return KindInvalidTimeRange }
func (e *InvalidTimeRangeError) Field() string { return FieldEndTime }

// SchedulingConflictError the proposal overlaps a blocking appointment
type SchedulingConflictError struct {
	AppointmentID int64
	Conflict      TimeRange
}

// Error omits the window when the conflicting appointment could not be read back
func (e *SchedulingConflictError) Error() string {
	if e.Conflict == (TimeRange{}) {
		return ErrSchedulingConflict.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchedulingConflict, e.Conflict)
}
func (e *SchedulingConflictError) Unwrap() error { return ErrSchedulingConflict }
func (e *SchedulingConflictError) Kind() string  { return KindSchedulingConflict }
func (e *SchedulingConflictError) Field() string { return FieldStartTime }

// OutsideWorkingHoursError either the doctor has no window on the weekday (NoWindow)
// or the start time is outside every window
type OutsideWorkingHoursError struct {
	Weekday  Weekday
	NoWindow bool
}

func (e *OutsideWorkingHoursError) Error() string {
	if e.NoWindow {
		return fmt.Sprintf("%s: doctor does not work on %s", ErrOutsideWorkingHours, e.Weekday)
	}
	return ErrOutsideWorkingHours.Error()
}
func (e *OutsideWorkingHoursError) Unwrap() error { return ErrOutsideWorkingHours }
func (e *OutsideWorkingHoursError) Kind() string  { return KindOutsideWorkingHours }
func (e *OutsideWorkingHoursError) Field() string {
	if e.NoWindow {
		return FieldDate
	}
	return FieldStartTime
}

// DoctorUnavailableError the date falls inside an exception
type DoctorUnavailableError struct {
	Reason ExceptionReason
}

func (e *DoctorUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDoctorUnavailable, e.Reason)
}
func (e *DoctorUnavailableError) Unwrap() error { return ErrDoctorUnavailable }
func (e *DoctorUnavailableError) Kind() string  { return KindDoctorUnavailable }
func (e *DoctorUnavailableError) Field() string { return FieldDate }

// InvalidTransitionError the status change is not an edge of the lifecycle
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
func (e *InvalidTransitionError) Kind() string  { return KindInvalidTransition }
func (e *InvalidTransitionError) Field() string { return FieldStatus }

// OverlapError a new working-hours window overlaps an active one
type OverlapError struct {
	Weekday  Weekday
	Existing TimeRange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrWorkingHoursOverlap, e.Weekday, e.Existing)
}
func (e *OverlapError) Unwrap() error { return ErrWorkingHoursOverlap }
func (e *OverlapError) Kind() string  { return KindWorkingHoursOverlap }
func (e *OverlapError) Field() string { return FieldStartTime }
