package directory

import "errors"

var (
	// ErrDoctorNotFound врач не зарегистрирован в справочнике
	ErrDoctorNotFound = errors.New("directory: doctor not found")

	// ErrPatientNotFound пациент не зарегистрирован в справочнике
	ErrPatientNotFound = errors.New("directory: patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directory client: invalid response")
)
