package reschedule_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/reschedule_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *rescheduleAppointment.Request) (*rescheduleAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*rescheduleAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var doctor = domain.Principal{UserID: 7, Role: domain.RoleDoctor}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/schedule", h.Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), doctor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *rescheduleAppointment.Request) bool {
		return r.AppointmentID == 5 && r.Principal == doctor && r.StartTime == "11:00" && r.EndTime.IsZero()
	})).Return(&rescheduleAppointment.Response{
		ID: 5, DoctorID: 7, Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), StartTime: "11:00", EndTime: "11:30", Status: "confirmed",
	}, nil)

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/appointments/5/schedule", `{"date":"2026-03-03","startTime":"11:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-03", resp.Date)
	assert.Equal(t, "11:30", resp.EndTime)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	body := `{"date":"2026-03-03","startTime":"11:00"}`

	tests := []struct {
		name       string
		path       string
		body       string
		ucErr      error
		wantStatus int
	}{
		{name: "bad id", path: "/api/v1/appointments/abc/schedule", body: body, wantStatus: http.StatusBadRequest},
		{name: "bad time", path: "/api/v1/appointments/5/schedule", body: `{"date":"2026-03-03","startTime":"11h"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/api/v1/appointments/5/schedule", body: body, ucErr: rescheduleAppointment.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", path: "/api/v1/appointments/5/schedule", body: body, ucErr: rescheduleAppointment.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "finished", path: "/api/v1/appointments/5/schedule", body: body, ucErr: rescheduleAppointment.ErrNotReschedulable, wantStatus: http.StatusConflict},
		{name: "busy", path: "/api/v1/appointments/5/schedule", body: body, ucErr: rescheduleAppointment.ErrDoctorDayBusy, wantStatus: http.StatusServiceUnavailable},
		{name: "outside hours", path: "/api/v1/appointments/5/schedule", body: body, ucErr: &domain.OutsideWorkingHoursError{}, wantStatus: http.StatusBadRequest},
		{name: "conflict", path: "/api/v1/appointments/5/schedule", body: body, ucErr: &domain.SchedulingConflictError{}, wantStatus: http.StatusConflict},
		{name: "internal", path: "/api/v1/appointments/5/schedule", body: body, ucErr: rescheduleAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)

			rec := serve(NewHandler(uc, nopLogger{}), tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
