package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

func tr(start, end string) TimeRange {
	return TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{name: "touching at end", a: tr("09:00", "09:30"), b: tr("09:30", "10:00"), want: false},
		{name: "touching at start", a: tr("10:00", "10:30"), b: tr("09:30", "10:00"), want: false},
		{name: "partial", a: tr("09:15", "09:45"), b: tr("09:00", "09:30"), want: true},
		{name: "contained", a: tr("09:10", "09:20"), b: tr("09:00", "09:30"), want: true},
		{name: "identical", a: tr("09:00", "09:30"), b: tr("09:00", "09:30"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeRange_ContainsStart(t *testing.T) {
	window := tr("09:00", "13:00")

	assert.True(t, window.ContainsStart("09:00"))
	assert.True(t, window.ContainsStart("12:59"))
	assert.False(t, window.ContainsStart("13:00"))
	assert.False(t, window.ContainsStart("08:59"))
}

func TestTimeRange_Subtract(t *testing.T) {
	window := tr("09:00", "13:00")

	tests := []struct {
		name string
		busy []TimeRange
		want []TimeRange
	}{
		{name: "nothing busy", busy: nil, want: []TimeRange{tr("09:00", "13:00")}},
		{
			name: "one in the middle",
			busy: []TimeRange{tr("10:00", "10:30")},
			want: []TimeRange{tr("09:00", "10:00"), tr("10:30", "13:00")},
		},
		{
			name: "unordered and overlapping",
			busy: []TimeRange{tr("11:00", "12:00"), tr("09:00", "09:30"), tr("11:30", "12:15")},
			want: []TimeRange{tr("09:30", "11:00"), tr("12:15", "13:00")},
		},
		{
			name: "spilling outside the window",
			busy: []TimeRange{tr("08:00", "09:15"), tr("12:45", "14:00")},
			want: []TimeRange{tr("09:15", "12:45")},
		},
		{
			name: "touching edges stay free",
			busy: []TimeRange{tr("08:00", "09:00"), tr("13:00", "14:00")},
			want: []TimeRange{tr("09:00", "13:00")},
		},
		{name: "fully covered", busy: []TimeRange{tr("08:00", "14:00")}, want: []TimeRange{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Subtract(tt.busy))
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 is a Monday
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Saturday, WeekdayOf(monday.AddDate(0, 0, 5)))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, "Sunday", Sunday.String())
	assert.False(t, Weekday(7).Valid())
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
		StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestAppointment_TransitionTo(t *testing.T) {
	a := &Appointment{Status: StatusCompleted}

	err := a.TransitionTo(StatusPending)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusCompleted, transitionErr.From)
	assert.Equal(t, StatusPending, transitionErr.To)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, a.Status)

	a.Status = StatusPending
	require.NoError(t, a.TransitionTo(StatusConfirmed))
	assert.Equal(t, StatusConfirmed, a.Status)
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction("mark_no_show")
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, action.Target())

	_, err = ParseAction("teleport")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseAppointmentType(t *testing.T) {
	typ, err := ParseAppointmentType("")
	require.NoError(t, err)
	assert.Equal(t, TypeFirstVisit, typ)

	_, err = ParseAppointmentType("surgery")
	assert.ErrorIs(t, err, ErrUnknownAppointmentType)
}

func TestException_Covers(t *testing.T) {
	e := &Exception{
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, e.Covers(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, e.Covers(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, e.Covers(time.Date(2026, 7, 3, 18, 0, 0, 0, time.UTC)))
	assert.False(t, e.Covers(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)))
}

func TestRejection_FieldScoped(t *testing.T) {
	errs := []error{
		&PastDateError{},
		&InvalidTimeRangeError{},
		&SchedulingConflictError{Conflict: tr("09:00", "09:30")},
		&OutsideWorkingHoursError{Weekday: Sunday, NoWindow: true},
		&DoctorUnavailableError{Reason: ReasonVacation},
		&InvalidTransitionError{From: StatusCompleted, To: StatusPending},
		&OverlapError{},
	}

	for _, err := range errs {
		wrapped := fmt.Errorf("usecase: %w", err)
		r, ok := AsRejection(wrapped)
		require.True(t, ok, "%T", err)
		assert.NotEmpty(t, r.Kind())
		assert.NotEmpty(t, r.Field())
	}

	_, ok := AsRejection(errors.New("db down"))
	assert.False(t, ok)

	conflict := &SchedulingConflictError{Conflict: tr("09:00", "09:30")}
	assert.Contains(t, conflict.Error(), "09:00-09:30")
	assert.Equal(t, ErrSchedulingConflict.Error(), (&SchedulingConflictError{}).Error())
	assert.Contains(t, (&OutsideWorkingHoursError{Weekday: Sunday, NoWindow: true}).Error(), "Sunday")
	assert.Contains(t, (&DoctorUnavailableError{Reason: ReasonVacation}).Error(), "vacaciones")
}

func TestSlot_Split(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slot := Slot{Date: date, Start: "09:00", End: "10:10"}

	pieces := slot.Split(30)

	require.Len(t, pieces, 2)
	assert.Equal(t, Slot{Date: date, Start: "09:00", End: "09:30"}, pieces[0])
	assert.Equal(t, Slot{Date: date, Start: "09:30", End: "10:00"}, pieces[1])
	assert.Equal(t, []Slot{slot}, slot.Split(0))
}

func TestPrincipal_Access(t *testing.T) {
	a := &Appointment{ID: 1, DoctorID: 7, PatientID: 3}

	tests := []struct {
		name      string
		principal Principal
		see       bool
		manage    bool
	}{
		{name: "staff", principal: Principal{UserID: 99, Role: RoleStaff}, see: true, manage: true},
		{name: "own doctor", principal: Principal{UserID: 7, Role: RoleDoctor}, see: true, manage: true},
		{name: "other doctor", principal: Principal{UserID: 8, Role: RoleDoctor}, see: false, manage: false},
		{name: "own patient", principal: Principal{UserID: 3, Role: RolePatient}, see: true, manage: false},
		{name: "other patient", principal: Principal{UserID: 4, Role: RolePatient}, see: false, manage: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.see, tt.principal.CanSee(a))
			assert.Equal(t, tt.manage, tt.principal.CanManageDoctor(a.DoctorID))
			assert.Equal(t, tt.see, tt.principal.CanBook(a.DoctorID, a.PatientID))
		})
	}

	assert.True(t, Principal{UserID: 3, Role: RolePatient}.CanSeePatient(3))
	assert.False(t, Principal{UserID: 4, Role: RolePatient}.CanSeePatient(3))

	_, err := ParseRole("admin")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
