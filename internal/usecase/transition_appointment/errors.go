package transition_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("transition_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда вызывающий не может выполнить действие
	ErrAccessDenied = errors.New("transition_appointment: access denied")

	// ErrNoShowTooEarly возвращается при отметке неявки до начала приема
	ErrNoShowTooEarly = errors.New("transition_appointment: appointment has not started yet")

	// ErrClinicalFieldsRequired возвращается при завершении приема без диагноза
	ErrClinicalFieldsRequired = errors.New("transition_appointment: diagnosis is required to complete an appointment")

	// ErrConcurrentUpdate возвращается, когда статус записи изменился параллельно
	ErrConcurrentUpdate = errors.New("transition_appointment: appointment was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_appointment: internal error")
)
