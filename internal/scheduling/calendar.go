package scheduling

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

type weekdayKey struct {
	doctorID int64
	weekday  domain.Weekday
}

// WorkingHoursCalendar recurring weekly windows per doctor
type WorkingHoursCalendar struct {
	windows map[weekdayKey][]domain.WorkingHours
}

// NewWorkingHoursCalendar builds a calendar from stored windows, inactive ones included
func NewWorkingHoursCalendar(hours []*domain.WorkingHours) *WorkingHoursCalendar {
	c := &WorkingHoursCalendar{windows: make(map[weekdayKey][]domain.WorkingHours)}
	for _, h := range hours {
		if h == nil {
			continue
		}
		key := weekdayKey{doctorID: h.DoctorID, weekday: h.Weekday}
		c.windows[key] = append(c.windows[key], *h)
	}
	return c
}

// WindowsFor returns the active windows of the doctor on the weekday ordered by start.
// The result is a fresh slice on every call.
func (c *WorkingHoursCalendar) WindowsFor(doctorID int64, weekday domain.Weekday) []domain.TimeRange {
	stored := c.windows[weekdayKey{doctorID: doctorID, weekday: weekday}]

	ranges := make([]domain.TimeRange, 0, len(stored))
	for _, w := range stored {
		if w.Active {
			ranges = append(ranges, w.TimeRange())
		}
	}
	slices.SortFunc(ranges, func(a, b domain.TimeRange) int {
		return a.Start.Compare(b.Start)
	})
	return ranges
}

// Add registers a new active window. It fails with InvalidTimeRangeError when start >= end
// and with OverlapError when the window overlaps an active window of the same doctor and weekday.
// Adjacent windows are kept separate.
func (c *WorkingHoursCalendar) Add(doctorID int64, weekday domain.Weekday, start, end types.TimeString) error {
	candidate := domain.WorkingHours{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}
	if err := c.CheckCandidate(candidate); err != nil {
		return err
	}

	key := weekdayKey{doctorID: doctorID, weekday: weekday}
	c.windows[key] = append(c.windows[key], candidate)
	return nil
}

// CheckCandidate validates a window against the calendar without registering it
func (c *WorkingHoursCalendar) CheckCandidate(candidate domain.WorkingHours) error {
	newRange := candidate.TimeRange()
	if !newRange.Valid() {
		return &domain.InvalidTimeRangeError{Range: newRange}
	}

	for _, existing := range c.WindowsFor(candidate.DoctorID, candidate.Weekday) {
		if newRange.Overlaps(existing) {
			return &domain.OverlapError{Weekday: candidate.Weekday, Existing: existing}
		}
	}
	return nil
}

// ExceptionCalendar blackout date ranges per doctor
type ExceptionCalendar struct {
	byDoctor map[int64][]domain.Exception
}

// NewExceptionCalendar builds a calendar from stored exceptions
func NewExceptionCalendar(exceptions []*domain.Exception) *ExceptionCalendar {
	c := &ExceptionCalendar{byDoctor: make(map[int64][]domain.Exception)}
	for _, e := range exceptions {
		if e == nil {
			continue
		}
		c.byDoctor[e.DoctorID] = append(c.byDoctor[e.DoctorID], *e)
	}
	return c
}

// Add registers an exception; start must not be after end
func (c *ExceptionCalendar) Add(e domain.Exception) error {
	if err := ValidateException(e); err != nil {
		return err
	}
	c.byDoctor[e.DoctorID] = append(c.byDoctor[e.DoctorID], e)
	return nil
}

// IsBlocked returns true if any of the doctor's exceptions covers the date
func (c *ExceptionCalendar) IsBlocked(doctorID int64, date time.Time) bool {
	_, ok := c.FirstBlockingReason(doctorID, date)
	return ok
}

// FirstBlockingReason returns the category of the first exception covering the date
// in registration order
func (c *ExceptionCalendar) FirstBlockingReason(doctorID int64, date time.Time) (domain.ExceptionReason, bool) {
	for _, e := range c.byDoctor[doctorID] {
		if e.Covers(date) {
			return e.Reason, true
		}
	}
	return "", false
}

// ValidateException checks the range of an exception
func ValidateException(e domain.Exception) error {
	if domain.DateOf(e.StartDate).After(domain.DateOf(e.EndDate)) {
		return ErrExceptionRange
	}
	return nil
}
