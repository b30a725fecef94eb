package scheduling

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

type dayKey struct {
	doctorID int64
	date     time.Time
}

// AppointmentLedger committed appointments indexed by doctor and date
type AppointmentLedger struct {
	byDay map[dayKey][]*domain.Appointment
}

// NewAppointmentLedger indexes the given appointments
func NewAppointmentLedger(appointments []*domain.Appointment) *AppointmentLedger {
	l := &AppointmentLedger{byDay: make(map[dayKey][]*domain.Appointment)}
	for _, a := range appointments {
		l.Add(a)
	}
	return l
}

// Add records an appointment
func (l *AppointmentLedger) Add(a *domain.Appointment) {
	if a == nil {
		return
	}
	key := dayKey{doctorID: a.DoctorID, date: domain.DateOf(a.Date)}
	l.byDay[key] = append(l.byDay[key], a)
}

// FindConflict returns the first blocking appointment of the doctor on the date
// whose interval overlaps r. excludingID = 0 excludes nothing.
func (l *AppointmentLedger) FindConflict(doctorID int64, date time.Time, r domain.TimeRange, excludingID int64) (*domain.Appointment, bool) {
	for _, a := range l.byDay[dayKey{doctorID: doctorID, date: domain.DateOf(date)}] {
		if excludingID != 0 && a.ID == excludingID {
			continue
		}
		if !a.IsBlocking() {
			continue
		}
		if a.TimeRange().Overlaps(r) {
			return a, true
		}
	}
	return nil, false
}

// OccupiedOn returns the intervals of non-cancelled appointments of the doctor on the date
func (l *AppointmentLedger) OccupiedOn(doctorID int64, date time.Time) []domain.TimeRange {
	appointments := l.byDay[dayKey{doctorID: doctorID, date: domain.DateOf(date)}]

	occupied := make([]domain.TimeRange, 0, len(appointments))
	for _, a := range appointments {
		if a.OccupiesTime() {
			occupied = append(occupied, a.TimeRange())
		}
	}
	return occupied
}
