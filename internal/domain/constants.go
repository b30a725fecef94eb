package domain

// Default configuration values
const (
	DefaultAppointmentMinutes = 30
	DefaultAvailabilityDays   = 30
	DefaultMaxRangeDays       = 31
)

// Business validation constants
const (
	MaxMotiveLength   = 1000
	MaxNotesLength    = 4000
	MaxSlotMinutes    = 480
	MinSlotMinutes    = 5
	MaxDescriptionLen = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses statuses that hold a doctor's time for admission purposes.
// Only these take part in the conflict check.
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// OccupyingStatuses statuses whose intervals are removed from bookable availability.
// Everything except cancelled.
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusNoShow,
}

// AllStatuses every known appointment status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
