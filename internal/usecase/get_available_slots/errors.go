package get_available_slots

import "errors"

var (
	// ErrInvalidRange возвращается, когда конец периода раньше начала
	ErrInvalidRange = errors.New("get_available_slots: range end is before range start")

	// ErrRangeTooLong возвращается, когда период длиннее допустимого
	ErrRangeTooLong = errors.New("get_available_slots: range is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
