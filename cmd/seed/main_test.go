package main

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	monday   = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday = monday.AddDate(0, 0, 5)
)

func demoHours(doctorID int64) []*domain.WorkingHours {
	var hours []*domain.WorkingHours
	for weekday := domain.Monday; weekday <= domain.Friday; weekday++ {
		for _, w := range demoWindows {
			hours = append(hours, &domain.WorkingHours{
				DoctorID: doctorID, Weekday: weekday,
				StartTime: types.TimeString(w[0]), EndTime: types.TimeString(w[1]), Active: true,
			})
		}
	}
	return hours
}

func newValidator() *scheduling.Validator {
	return scheduling.NewValidator(fixedClock{now: monday.AddDate(0, 0, -1)}, time.UTC)
}

func TestPlanDay_AcceptedAppointmentsPassValidation(t *testing.T) {
	gofakeit.Seed(42)
	validator := newValidator()
	hours := demoHours(7)
	existing := []*domain.Appointment{{
		ID: 1, DoctorID: 7, Date: monday, Status: domain.StatusConfirmed,
		StartTime: types.TimeString("08:00"), EndTime: types.TimeString("12:00"),
	}}

	planned, rejected := planDay(validator, 7, monday, 16, 50, hours, nil, existing)

	// утреннее окно целиком занято, поэтому часть кандидатов отклоняется
	assert.LessOrEqual(t, len(planned)+rejected, 16)
	assert.NotEmpty(t, planned)
	ledger := append([]*domain.Appointment(nil), existing...)
	for _, a := range planned {
		assert.Equal(t, monday, a.Date)
		assert.True(t, a.IsBlocking())
		assert.GreaterOrEqual(t, a.StartTime.Minutes(), types.TimeString("14:00").Minutes())

		snapshot := scheduling.NewSnapshot(hours, nil, ledger)
		require.NoError(t, validator.Validate(snapshot, scheduling.Proposal{
			DoctorID: 7, Date: a.Date, StartTime: a.StartTime, EndTime: a.EndTime,
		}))
		ledger = append(ledger, a)
	}
}

func TestPlanDay_RejectsDaysTheValidatorRefuses(t *testing.T) {
	gofakeit.Seed(7)
	validator := newValidator()
	hours := demoHours(7)

	planned, rejected := planDay(validator, 7, saturday, 4, 50, hours, nil, nil)
	assert.Empty(t, planned, "no windows on weekends")
	assert.Positive(t, rejected)

	vacation := []*domain.Exception{{DoctorID: 7, StartDate: monday, EndDate: monday.AddDate(0, 0, 1), Reason: domain.ReasonVacation}}
	planned, rejected = planDay(validator, 7, monday.AddDate(0, 0, 1), 4, 50, hours, vacation, nil)
	assert.Empty(t, planned, "doctor is away")
	assert.Positive(t, rejected)

	past := monday.AddDate(0, 0, -3)
	planned, _ = planDay(validator, 7, past, 4, 50, hours, nil, nil)
	assert.Empty(t, planned)
}

func TestPlanDay_OtherDoctorScheduleIgnored(t *testing.T) {
	gofakeit.Seed(1)
	validator := newValidator()

	planned, rejected := planDay(validator, 7, monday, 3, 50, demoHours(8), nil, nil)

	assert.Empty(t, planned)
	assert.Positive(t, rejected)
}
