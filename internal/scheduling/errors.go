package scheduling

import "errors"

var (
	// ErrExceptionRange start date of an exception is after its end date
	ErrExceptionRange = errors.New("scheduling: exception start date is after end date")
)
