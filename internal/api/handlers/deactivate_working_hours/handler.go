package deactivate_working_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule"
)

const (
	msgInvalidDoctorID       = "некорректный ID врача"
	msgInvalidWorkingHoursID = "некорректный ID окна рабочего времени"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "окно рабочего времени не найдено"
	msgForbidden             = "расписание может менять только сам врач или персонал"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/doctors/{doctorId}/working-hours/{workingHoursId}
// Окно выключается, записи внутри него остаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}
	workingHoursID, err := handlers.PathID(r, "workingHoursId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidWorkingHoursID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeactivateWorkingHours(r.Context(), principal, doctorID, workingHoursID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrWorkingHoursNotFound):
			h.logger.Warn("DELETE /doctors/{id}/working-hours/{id} - Not found: doctor_id=%d, id=%d", doctorID, workingHoursID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /doctors/{id}/working-hours/{id} - Access denied: doctor_id=%d, user_id=%d", doctorID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /doctors/{id}/working-hours/{id} - Failed to deactivate: id=%d, error=%v", workingHoursID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /doctors/{id}/working-hours/{id} - Working hours deactivated: doctor_id=%d, id=%d", doctorID, workingHoursID)
	w.WriteHeader(http.StatusNoContent)
}
