package get_patient_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct{ mock.Mock }

func (m *mockService) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.AppointmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/patients/{patientId}/appointments", h.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), domain.Principal{UserID: 3, Role: domain.RolePatient}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetPatientAppointments", mock.Anything, mock.MatchedBy(func(r *models.GetPatientAppointmentsRequest) bool {
		return r.PatientID == 3 && len(r.Statuses) == 1 && r.Statuses[0] == "completed"
	})).Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}, {ID: 2}}}, nil)
	svc.On("GetPatientAppointments", mock.Anything, mock.MatchedBy(func(r *models.GetPatientAppointmentsRequest) bool {
		return r.PatientID == 4
	})).Return(nil, appointments.ErrAccessDenied)
	svc.On("GetPatientAppointments", mock.Anything, mock.MatchedBy(func(r *models.GetPatientAppointmentsRequest) bool {
		return r.PatientID == 5
	})).Return(nil, appointments.ErrInternal)
	h := NewHandler(svc, nopLogger{})

	rec := serve(h, "/api/v1/patients/3/appointments?status=completed")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)

	assert.Equal(t, http.StatusForbidden, serve(h, "/api/v1/patients/4/appointments").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(h, "/api/v1/patients/5/appointments").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/patients/0/appointments").Code)
}
