package list_working_hours

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidFlag     = "параметр includeInactive должен быть true или false"
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

// Handle GET /api/v1/doctors/{doctorId}/working-hours
// Query params: includeInactive (опционально, по умолчанию false)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/working-hours - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var includeInactive bool
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		if includeInactive, err = strconv.ParseBool(raw); err != nil {
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	result, err := h.service.ListWorkingHours(r.Context(), doctorID, includeInactive)
	if err != nil {
		h.logger.Error("GET /doctors/{id}/working-hours - Failed to list working hours: doctor_id=%d, error=%v", doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
