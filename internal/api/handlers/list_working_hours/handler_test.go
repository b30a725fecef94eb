package list_working_hours

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockService struct{ mock.Mock }

func (m *mockService) ListWorkingHours(ctx context.Context, doctorID int64, includeInactive bool) (*models.WorkingHoursListResponse, error) {
	args := m.Called(ctx, doctorID, includeInactive)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.WorkingHoursListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/doctors/{doctorId}/working-hours", h.Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("ListWorkingHours", mock.Anything, int64(7), false).
		Return(&models.WorkingHoursListResponse{WorkingHours: []models.WorkingHoursResponse{{ID: 1}}}, nil)
	svc.On("ListWorkingHours", mock.Anything, int64(7), true).
		Return(&models.WorkingHoursListResponse{WorkingHours: []models.WorkingHoursResponse{{ID: 1}, {ID: 2}}}, nil)
	svc.On("ListWorkingHours", mock.Anything, int64(8), false).Return(nil, errors.New("db down"))
	h := NewHandler(svc, nopLogger{})

	rec := serve(h, "/api/v1/doctors/7/working-hours")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"id":2`)

	rec = serve(h, "/api/v1/doctors/7/working-hours?includeInactive=true")
	assert.Contains(t, rec.Body.String(), `"id":2`)

	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/doctors/7/working-hours?includeInactive=maybe").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(h, "/api/v1/doctors/8/working-hours").Code)
}
