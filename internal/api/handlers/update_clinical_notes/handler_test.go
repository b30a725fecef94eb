package update_clinical_notes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *mockService) UpdateClinicalNotes(ctx context.Context, id int64, req *models.UpdateClinicalNotesRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.AppointmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, id, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/clinical-notes", h.Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/clinical-notes", strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), domain.Principal{UserID: 7, Role: domain.RoleDoctor}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	diagnosis := "migrana"
	svc := &mockService{}
	svc.On("UpdateClinicalNotes", mock.Anything, int64(1), mock.MatchedBy(func(r *models.UpdateClinicalNotesRequest) bool {
		return r.Principal.UserID == 7 && r.Notes == nil && r.Diagnosis != nil && *r.Diagnosis == diagnosis
	})).Return(&models.AppointmentResponse{ID: 1, Diagnosis: &diagnosis}, nil)
	svc.On("UpdateClinicalNotes", mock.Anything, int64(2), mock.Anything).Return(nil, appointments.ErrNotEditable)
	svc.On("UpdateClinicalNotes", mock.Anything, int64(3), mock.Anything).Return(nil, appointments.ErrAccessDenied)
	svc.On("UpdateClinicalNotes", mock.Anything, int64(4), mock.Anything).Return(nil, appointments.ErrAppointmentNotFound)
	svc.On("UpdateClinicalNotes", mock.Anything, int64(5), mock.Anything).Return(nil, appointments.ErrInvalidInput)
	h := NewHandler(svc, nopLogger{})

	rec := serve(h, "1", `{"diagnosis":"migrana"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"diagnosis":"migrana"`)

	assert.Equal(t, http.StatusConflict, serve(h, "2", `{"notes":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "3", `{"notes":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "4", `{"notes":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "5", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "1", `{"status":"completed"}`).Code)
}
