package list_exceptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

type ScheduleService interface {
	ListExceptions(ctx context.Context, doctorID int64, from, to *time.Time) (*models.ExceptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
