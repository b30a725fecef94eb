package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда вызывающий не может менять запись
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrNotReschedulable возвращается для записей, которые уже начаты или завершены
	ErrNotReschedulable = errors.New("reschedule_appointment: only pending or confirmed appointments can be rescheduled")

	// ErrDoctorDayBusy возвращается, когда день врача занят другой операцией дольше допустимого ожидания
	ErrDoctorDayBusy = errors.New("reschedule_appointment: doctor's day is being booked, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
