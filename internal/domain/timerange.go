package domain

import (
	"slices"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// TimeRange half-open wall-clock interval [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Valid returns true when Start < End
func (r TimeRange) Valid() bool {
	return r.Start.IsBefore(r.End)
}

// Overlaps uses strict inequalities: touching edges do not overlap
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && r.End.IsAfter(other.Start)
}

// ContainsStart returns true when Start <= t < End
func (r TimeRange) ContainsStart(t types.TimeString) bool {
	return !t.IsBefore(r.Start) && t.IsBefore(r.End)
}

// Minutes length of the range
func (r TimeRange) Minutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Subtract removes busy intervals from r and returns what is left, ordered by start.
// Busy intervals may be unordered, overlapping or partially outside r.
func (r TimeRange) Subtract(busy []TimeRange) []TimeRange {
	sorted := slices.Clone(busy)
	slices.SortFunc(sorted, func(a, b TimeRange) int {
		return a.Start.Compare(b.Start)
	})

	free := make([]TimeRange, 0, len(sorted)+1)
	cursor := r.Start

	for _, b := range sorted {
		if !b.Valid() || !b.Overlaps(TimeRange{Start: cursor, End: r.End}) {
			continue
		}
		if b.Start.IsAfter(cursor) {
			free = append(free, TimeRange{Start: cursor, End: b.Start})
		}
		if b.End.IsAfter(cursor) {
			cursor = b.End
		}
		if !cursor.IsBefore(r.End) {
			return free
		}
	}

	if cursor.IsBefore(r.End) {
		free = append(free, TimeRange{Start: cursor, End: r.End})
	}
	return free
}
