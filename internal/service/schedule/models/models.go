package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

// Request модели

// AddWorkingHoursRequest запрос на добавление окна рабочего времени
type AddWorkingHoursRequest struct {
	Principal domain.Principal
	DoctorID  int64
	Weekday   int    // 0 = понедельник ... 6 = воскресенье
	StartTime string // "09:00"
	EndTime   string // "13:00"
}

// AddExceptionRequest запрос на добавление исключения (отпуск, обучение и т.п.)
type AddExceptionRequest struct {
	Principal   domain.Principal
	DoctorID    int64
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	Description *string
}

// Response модели

// WorkingHoursResponse ответ с окном рабочего времени
type WorkingHoursResponse struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	Weekday     int       `json:"weekday"`
	WeekdayName string    `json:"weekdayName"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WorkingHoursListResponse ответ со списком окон
type WorkingHoursListResponse struct {
	WorkingHours []WorkingHoursResponse `json:"workingHours"`
}

// ExceptionResponse ответ с исключением
type ExceptionResponse struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Reason      string    `json:"reason"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExceptionListResponse ответ со списком исключений
type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// Методы конвертации

// FromDomainWorkingHours конвертирует domain модель в DTO
func FromDomainWorkingHours(w *domain.WorkingHours) *WorkingHoursResponse {
	return &WorkingHoursResponse{
		ID:          w.ID,
		DoctorID:    w.DoctorID,
		Weekday:     int(w.Weekday),
		WeekdayName: w.Weekday.String(),
		StartTime:   w.StartTime.String(),
		EndTime:     w.EndTime.String(),
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
	}
}

// FromDomainWorkingHoursList конвертирует список domain моделей в DTO
func FromDomainWorkingHoursList(hours []*domain.WorkingHours) *WorkingHoursListResponse {
	resp := &WorkingHoursListResponse{WorkingHours: make([]WorkingHoursResponse, 0, len(hours))}
	for _, w := range hours {
		resp.WorkingHours = append(resp.WorkingHours, *FromDomainWorkingHours(w))
	}
	return resp
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.Exception) *ExceptionResponse {
	return &ExceptionResponse{
		ID:          e.ID,
		DoctorID:    e.DoctorID,
		StartDate:   e.StartDate.Format(domain.DateFormat),
		EndDate:     e.EndDate.Format(domain.DateFormat),
		Reason:      string(e.Reason),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// FromDomainExceptionList конвертирует список domain моделей в DTO
func FromDomainExceptionList(exceptions []*domain.Exception) *ExceptionListResponse {
	resp := &ExceptionListResponse{Exceptions: make([]ExceptionResponse, 0, len(exceptions))}
	for _, e := range exceptions {
		resp.Exceptions = append(resp.Exceptions, *FromDomainException(e))
	}
	return resp
}
