package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"doctorId":7,"patientId":3,"date":"2026-03-02","startTime":"09:00","motive":"control"}`

func serve(h *Handler, principal *domain.Principal, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createAppointment.Request) bool {
		return r.DoctorID == 7 && r.StartTime == "09:00" && r.EndTime.IsZero()
	})).Return(&createAppointment.Response{
		ID: 11, DoctorID: 7, PatientID: 3, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("09:00"), EndTime: types.TimeString("09:30"), Status: "pending",
	}, nil)

	rec := serve(NewHandler(uc, nopLogger{}), &domain.Principal{UserID: 3, Role: domain.RolePatient}, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "09:30", resp.EndTime)
	uc.AssertExpectations(t)
}

func TestHandle_Rejection(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &domain.SchedulingConflictError{})

	rec := serve(NewHandler(uc, nopLogger{}), &domain.Principal{UserID: 100, Role: domain.RoleStaff}, validBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.KindSchedulingConflict, resp.Code)
	assert.Equal(t, domain.FieldStartTime, resp.Field)
}

func TestHandle_Errors(t *testing.T) {
	staff := &domain.Principal{UserID: 100, Role: domain.RoleStaff}

	tests := []struct {
		name       string
		principal  *domain.Principal
		body       string
		ucErr      error
		wantStatus int
	}{
		{name: "no principal", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "bad json", principal: staff, body: `{`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", principal: staff, body: `{"doctorId":7,"room":1}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", principal: staff, body: `{"doctorId":7,"patientId":3,"date":"02/03/2026","startTime":"09:00"}`, wantStatus: http.StatusBadRequest},
		{name: "other patient", principal: &domain.Principal{UserID: 4, Role: domain.RolePatient}, body: validBody, wantStatus: http.StatusForbidden},
		{name: "invalid input", principal: staff, body: validBody, ucErr: createAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "doctor not found", principal: staff, body: validBody, ucErr: createAppointment.ErrDoctorNotFound, wantStatus: http.StatusNotFound},
		{name: "doctor inactive", principal: staff, body: validBody, ucErr: createAppointment.ErrDoctorInactive, wantStatus: http.StatusBadRequest},
		{name: "patient not found", principal: staff, body: validBody, ucErr: createAppointment.ErrPatientNotFound, wantStatus: http.StatusNotFound},
		{name: "day busy", principal: staff, body: validBody, ucErr: createAppointment.ErrDoctorDayBusy, wantStatus: http.StatusServiceUnavailable},
		{name: "past date", principal: staff, body: validBody, ucErr: &domain.PastDateError{}, wantStatus: http.StatusBadRequest},
		{name: "internal", principal: staff, body: validBody, ucErr: fmt.Errorf("%w: db", createAppointment.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)

			rec := serve(NewHandler(uc, nopLogger{}), tt.principal, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
