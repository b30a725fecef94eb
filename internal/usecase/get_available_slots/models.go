package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Request модель запроса на получение свободного времени врача
type Request struct {
	DoctorID    int64
	From        *time.Time // nil = сегодня
	To          *time.Time // nil = From + 30 дней
	SlotMinutes int        // 0 = свободные интервалы целиком
}

// Response модель ответа со свободным временем
type Response struct {
	DoctorID int64
	From     time.Time
	To       time.Time
	Slots    []Slot
}

// Slot свободный интервал
type Slot struct {
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
