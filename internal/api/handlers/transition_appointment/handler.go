package transition_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	transitionAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/transition_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "недостаточно прав для этого действия"
	msgNoShowTooEarly       = "нельзя отметить неявку до начала приема"
	msgClinicalRequired     = "для завершения приема нужен диагноз"
	msgConcurrentUpdate     = "запись была изменена параллельно, обновите данные"
)

type Handler struct {
	useCase TransitionAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase TransitionAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID, principal))
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("PATCH /appointments/{id}/status - Rejected: appointment_id=%d, action=%s: %v", appointmentID, req.Action, err)
			return
		}

		switch {
		case errors.Is(err, transitionAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionAppointment.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/status - Access denied: appointment_id=%d, user_id=%d, action=%s",
				appointmentID, principal.UserID, req.Action)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionAppointment.ErrNoShowTooEarly):
			handlers.RespondBadRequest(w, msgNoShowTooEarly)

		case errors.Is(err, transitionAppointment.ErrClinicalFieldsRequired):
			handlers.RespondBadRequest(w, msgClinicalRequired)

		case errors.Is(err, transitionAppointment.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /appointments/{id}/status - Concurrent update: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		case errors.Is(err, transitionAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /appointments/{id}/status - Failed to change status: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status changed: appointment_id=%d, %s -> %s",
		appointmentID, result.PreviousStatus, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
