package scheduling

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// BookableSlots yields the open intervals of the doctor for every date in [from, to].
// Dates covered by an exception are skipped. Each weekday window is reduced by the
// intervals of non-cancelled appointments on that date. The sequence is lazy and can be
// iterated any number of times.
func BookableSlots(s Snapshot, doctorID int64, from, to time.Time) iter.Seq[domain.Slot] {
	first, last := domain.DateOf(from), domain.DateOf(to)

	return func(yield func(domain.Slot) bool) {
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			if s.Exceptions.IsBlocked(doctorID, date) {
				continue
			}

			windows := s.Hours.WindowsFor(doctorID, domain.WeekdayOf(date))
			if len(windows) == 0 {
				continue
			}

			occupied := s.Ledger.OccupiedOn(doctorID, date)
			for _, window := range windows {
				for _, free := range window.Subtract(occupied) {
					if !yield(domain.Slot{Date: date, Start: free.Start, End: free.End}) {
						return
					}
				}
			}
		}
	}
}
