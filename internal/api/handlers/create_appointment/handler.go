package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "нельзя записать к этому врачу или этого пациента"
	msgDoctorNotFound     = "врач не найден"
	msgDoctorInactive     = "врач не принимает пациентов"
	msgPatientNotFound    = "пациент не найден"
	msgDoctorDayBusy      = "день врача сейчас бронируется, повторите запрос"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	// Пациент записывается только сам, врач только к себе
	if !principal.CanBook(req.DoctorID, req.PatientID) {
		h.logger.Warn("POST /appointments - Access denied: user_id=%d role=%s doctor_id=%d patient_id=%d",
			principal.UserID, principal.Role, req.DoctorID, req.PatientID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("POST /appointments - Rejected: doctor_id=%d, date=%s: %v", req.DoctorID, req.Date, err)
			return
		}

		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createAppointment.ErrDoctorInactive):
			h.logger.Warn("POST /appointments - Doctor inactive: doctor_id=%d", req.DoctorID)
			handlers.RespondBadRequest(w, msgDoctorInactive)

		case errors.Is(err, createAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, createAppointment.ErrDoctorDayBusy):
			h.logger.Warn("POST /appointments - Doctor day busy: doctor_id=%d, date=%s", req.DoctorID, req.Date)
			w.Header().Set("Retry-After", "1")
			handlers.RespondServiceUnavailable(w, msgDoctorDayBusy)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, doctor_id=%d, patient_id=%d",
		result.ID, result.DoctorID, result.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
