package create_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врача нет в справочнике
	ErrDoctorNotFound = errors.New("create_appointment: doctor not found")

	// ErrDoctorInactive возвращается, когда врач отключен в справочнике
	ErrDoctorInactive = errors.New("create_appointment: doctor is inactive")

	// ErrPatientNotFound возвращается, когда пациента нет в справочнике
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrDoctorDayBusy возвращается, когда день врача занят другой записью дольше допустимого ожидания
	ErrDoctorDayBusy = errors.New("create_appointment: doctor's day is being booked, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
