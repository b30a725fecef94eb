package add_working_hours

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

type ScheduleService interface {
	AddWorkingHours(ctx context.Context, req *models.AddWorkingHoursRequest) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
