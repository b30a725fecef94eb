package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Slot an open interval on a specific date in which an appointment can be admitted
type Slot struct {
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}

// Minutes returns the slot length
func (s Slot) Minutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// Split cuts the slot into consecutive pieces of the given length.
// A trailing remainder shorter than minutes is dropped.
func (s Slot) Split(minutes int) []Slot {
	if minutes <= 0 {
		return []Slot{s}
	}

	pieces := make([]Slot, 0, s.Minutes()/minutes)
	for start := s.Start.Minutes(); start+minutes <= s.End.Minutes(); start += minutes {
		from, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		to, err := types.NewTimeStringFromMinutes(start + minutes)
		if err != nil {
			// конец ровно в 24:00 не представим, такой хвост отбрасываем
			break
		}
		pieces = append(pieces, Slot{Date: s.Date, Start: from, End: to})
	}
	return pieces
}
