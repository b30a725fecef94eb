package scheduling

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// TimeProvider source of the current time
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider system clock
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Snapshot the calendars and ledger a decision is made against
type Snapshot struct {
	Hours      *WorkingHoursCalendar
	Exceptions *ExceptionCalendar
	Ledger     *AppointmentLedger
}

// NewSnapshot assembles a snapshot from stored records
func NewSnapshot(hours []*domain.WorkingHours, exceptions []*domain.Exception, appointments []*domain.Appointment) Snapshot {
	return Snapshot{
		Hours:      NewWorkingHoursCalendar(hours),
		Exceptions: NewExceptionCalendar(exceptions),
		Ledger:     NewAppointmentLedger(appointments),
	}
}

// Proposal an appointment about to be admitted or moved
type Proposal struct {
	DoctorID  int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// TimeRange of the proposal
func (p Proposal) TimeRange() domain.TimeRange {
	return domain.TimeRange{Start: p.StartTime, End: p.EndTime}
}

type validateOptions struct {
	excludingID  int64
	skipPastDate bool
}

// ValidateOption tunes a single Validate call
type ValidateOption func(*validateOptions)

// ExcludingAppointment ignores the appointment with this id in the conflict check,
// used when an existing appointment is moved
func ExcludingAppointment(id int64) ValidateOption {
	return func(o *validateOptions) {
		o.excludingID = id
	}
}

// SkipPastDateCheck disables the create-time rule that the date is not before today
func SkipPastDateCheck() ValidateOption {
	return func(o *validateOptions) {
		o.skipPastDate = true
	}
}

// Validator admission predicate. It has no side effects.
type Validator struct {
	clock    TimeProvider
	location *time.Location
}

// NewValidator creates a validator; "today" is taken from clock in location
func NewValidator(clock TimeProvider, location *time.Location) *Validator {
	if clock == nil {
		clock = RealTimeProvider{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Validator{clock: clock, location: location}
}

// Today current calendar date as midnight UTC
func (v *Validator) Today() time.Time {
	return domain.DateOf(v.clock.Now().In(v.location))
}

// Validate runs the admission checks in a fixed order and returns the first violation:
// past date, time range, conflict, weekday window, start inside a window, exception.
func (v *Validator) Validate(s Snapshot, p Proposal, opts ...ValidateOption) error {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	date := domain.DateOf(p.Date)

	if !o.skipPastDate {
		if today := v.Today(); date.Before(today) {
			return &domain.PastDateError{Date: date, Today: today}
		}
	}

	proposed := p.TimeRange()
	if !proposed.Valid() {
		return &domain.InvalidTimeRangeError{Range: proposed}
	}

	if conflict, found := s.Ledger.FindConflict(p.DoctorID, date, proposed, o.excludingID); found {
		return &domain.SchedulingConflictError{AppointmentID: conflict.ID, Conflict: conflict.TimeRange()}
	}

	weekday := domain.WeekdayOf(date)
	windows := s.Hours.WindowsFor(p.DoctorID, weekday)
	if len(windows) == 0 {
		return &domain.OutsideWorkingHoursError{Weekday: weekday, NoWindow: true}
	}

	if !startsInsideAny(windows, p.StartTime) {
		return &domain.OutsideWorkingHoursError{Weekday: weekday}
	}

	if reason, blocked := s.Exceptions.FirstBlockingReason(p.DoctorID, date); blocked {
		return &domain.DoctorUnavailableError{Reason: reason}
	}

	return nil
}

// startsInsideAny only the start is bounded by the window; the end may run past it
func startsInsideAny(windows []domain.TimeRange, start types.TimeString) bool {
	for _, w := range windows {
		if w.ContainsStart(start) {
			return true
		}
	}
	return false
}
