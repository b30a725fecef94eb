package schedule

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда окно рабочего времени не найдено
	ErrWorkingHoursNotFound = errors.New("working hours not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на расписание врача
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
