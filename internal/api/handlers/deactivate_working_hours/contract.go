package deactivate_working_hours

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

type ScheduleService interface {
	DeactivateWorkingHours(ctx context.Context, principal domain.Principal, doctorID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
