package add_working_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingWeekday     = "день недели обязателен"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "расписание может менять только сам врач или персонал"
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

// Handle POST /api/v1/doctors/{doctorId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("POST /doctors/{id}/working-hours - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctors/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Weekday == nil {
		handlers.RespondBadRequest(w, msgMissingWeekday)
		return
	}

	result, err := h.service.AddWorkingHours(r.Context(), req.ToServiceRequest(doctorID, principal))
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("POST /doctors/{id}/working-hours - Rejected: doctor_id=%d: %v", doctorID, err)
			return
		}

		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /doctors/{id}/working-hours - Access denied: doctor_id=%d, user_id=%d", doctorID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /doctors/{id}/working-hours - Failed to add working hours: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctors/{id}/working-hours - Working hours added: doctor_id=%d, id=%d", doctorID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
