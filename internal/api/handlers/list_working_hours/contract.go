package list_working_hours

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

type ScheduleService interface {
	ListWorkingHours(ctx context.Context, doctorID int64, includeInactive bool) (*models.WorkingHoursListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
