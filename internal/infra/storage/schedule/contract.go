package schedule

import "github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
