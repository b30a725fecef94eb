package scheduling

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

const doctorID int64 = 7

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(weekday domain.Weekday, start, end string) *domain.WorkingHours {
	return &domain.WorkingHours{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Active:    true,
	}
}

func appointment(id int64, day time.Time, start, end string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		DoctorID:  doctorID,
		PatientID: 100 + id,
		Date:      day,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Status:    status,
	}
}

func proposal(day time.Time, start, end string) Proposal {
	return Proposal{DoctorID: doctorID, Date: day, StartTime: types.TimeString(start), EndTime: types.TimeString(end)}
}

// 2026-03-02 is a Monday
var (
	monday  = date(2026, 3, 2)
	tuesday = date(2026, 3, 3)
	clock   = fixedClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
)

func TestValidator_ScenarioA_Conflict(t *testing.T) {
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")},
		nil,
		[]*domain.Appointment{appointment(1, monday, "09:00", "09:30", domain.StatusConfirmed)},
	)
	v := NewValidator(clock, time.UTC)

	err := v.Validate(snapshot, proposal(monday, "09:15", "09:45"))

	var conflict *domain.SchedulingConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.TimeString("09:00"), conflict.Conflict.Start)
	assert.Equal(t, types.TimeString("09:30"), conflict.Conflict.End)
	assert.Equal(t, int64(1), conflict.AppointmentID)

	assert.NoError(t, v.Validate(snapshot, proposal(monday, "09:30", "10:00")))
}

func TestValidator_ScenarioB_NoWindowOnWeekday(t *testing.T) {
	snapshot := NewSnapshot([]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}, nil, nil)
	v := NewValidator(clock, time.UTC)

	err := v.Validate(snapshot, proposal(tuesday, "09:00", "09:30"))

	var outside *domain.OutsideWorkingHoursError
	require.ErrorAs(t, err, &outside)
	assert.True(t, outside.NoWindow)
	assert.Equal(t, domain.Tuesday, outside.Weekday)
	assert.Contains(t, err.Error(), "Tuesday")
}

func TestValidator_ScenarioC_Exception(t *testing.T) {
	thursday := date(2025, 6, 5)
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{window(domain.Thursday, "08:00", "13:00")},
		[]*domain.Exception{{
			DoctorID:  doctorID,
			StartDate: date(2025, 6, 1),
			EndDate:   date(2025, 6, 10),
			Reason:    domain.ReasonVacation,
		}},
		nil,
	)
	v := NewValidator(fixedClock{now: date(2025, 5, 1)}, time.UTC)

	err := v.Validate(snapshot, proposal(thursday, "09:00", "09:30"))

	var unavailable *domain.DoctorUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, domain.ReasonVacation, unavailable.Reason)
	assert.Contains(t, err.Error(), "vacaciones")
}

func TestValidator_PastDate(t *testing.T) {
	snapshot := NewSnapshot([]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}, nil, nil)
	v := NewValidator(fixedClock{now: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)}, time.UTC)

	err := v.Validate(snapshot, proposal(monday, "09:00", "09:30"))
	assert.ErrorIs(t, err, domain.ErrPastDate)

	// дата в прошлом проверяется раньше некорректного диапазона
	err = v.Validate(snapshot, proposal(monday, "10:00", "09:00"))
	assert.ErrorIs(t, err, domain.ErrPastDate)

	assert.NoError(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30"), SkipPastDateCheck()))
}

func TestValidator_TodayUsesLocation(t *testing.T) {
	snapshot := NewSnapshot([]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}, nil, nil)
	// 2026-03-02 02:00 UTC is still 2026-03-01 in Bogota
	now := fixedClock{now: time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)}
	bogota := time.FixedZone("COT", -5*60*60)

	v := NewValidator(now, bogota)

	assert.Equal(t, date(2026, 3, 1), v.Today())
	assert.NoError(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30")))
}

func TestValidator_InvalidTimeRangeBeatsEverythingElse(t *testing.T) {
	snapshot := NewSnapshot(
		nil,
		[]*domain.Exception{{DoctorID: doctorID, StartDate: tuesday, EndDate: tuesday, Reason: domain.ReasonPersonal}},
		[]*domain.Appointment{appointment(1, tuesday, "09:00", "10:00", domain.StatusConfirmed)},
	)
	v := NewValidator(clock, time.UTC)

	for _, p := range []Proposal{proposal(tuesday, "09:30", "09:30"), proposal(tuesday, "09:45", "09:15")} {
		err := v.Validate(snapshot, p)
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	}
}

func TestValidator_CheckOrder(t *testing.T) {
	hours := []*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}
	blocked := []*domain.Exception{{DoctorID: doctorID, StartDate: monday, EndDate: monday, Reason: domain.ReasonTraining}}
	v := NewValidator(clock, time.UTC)

	// конфликт важнее исключения
	snapshot := NewSnapshot(hours, blocked, []*domain.Appointment{appointment(1, monday, "09:00", "09:30", domain.StatusPending)})
	assert.ErrorIs(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30")), domain.ErrSchedulingConflict)

	// окно важнее исключения
	snapshot = NewSnapshot(hours, blocked, nil)
	assert.ErrorIs(t, v.Validate(snapshot, proposal(monday, "14:00", "14:30")), domain.ErrOutsideWorkingHours)

	// в окне, но исключение
	assert.ErrorIs(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30")), domain.ErrDoctorUnavailable)
}

func TestValidator_StartInsideWindow(t *testing.T) {
	snapshot := NewSnapshot([]*domain.WorkingHours{
		window(domain.Monday, "14:00", "18:00"),
		window(domain.Monday, "08:00", "12:00"),
	}, nil, nil)
	v := NewValidator(clock, time.UTC)

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{name: "at window start", start: "08:00", end: "08:30"},
		{name: "end runs past window", start: "11:45", end: "12:15"},
		{name: "second window", start: "17:30", end: "18:00"},
		{name: "at window end", start: "12:00", end: "12:30", wantErr: true},
		{name: "between windows", start: "13:00", end: "13:30", wantErr: true},
		{name: "before opening", start: "07:30", end: "08:30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(snapshot, proposal(monday, tt.start, tt.end))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var outside *domain.OutsideWorkingHoursError
			require.ErrorAs(t, err, &outside)
			assert.False(t, outside.NoWindow)
		})
	}
}

func TestValidator_InactiveWindowIgnored(t *testing.T) {
	inactive := window(domain.Monday, "08:00", "13:00")
	inactive.Active = false
	snapshot := NewSnapshot([]*domain.WorkingHours{inactive}, nil, nil)

	err := NewValidator(clock, time.UTC).Validate(snapshot, proposal(monday, "09:00", "09:30"))

	var outside *domain.OutsideWorkingHoursError
	require.ErrorAs(t, err, &outside)
	assert.True(t, outside.NoWindow)
}

func TestValidator_OnlyBlockingStatusesConflict(t *testing.T) {
	hours := []*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}
	v := NewValidator(clock, time.UTC)

	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		snapshot := NewSnapshot(hours, nil, []*domain.Appointment{appointment(1, monday, "09:00", "09:30", status)})
		assert.NoError(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30")), status)
	}

	for _, status := range domain.BlockingStatuses {
		snapshot := NewSnapshot(hours, nil, []*domain.Appointment{appointment(1, monday, "09:00", "09:30", status)})
		assert.ErrorIs(t, v.Validate(snapshot, proposal(monday, "09:00", "09:30")), domain.ErrSchedulingConflict, status)
	}
}

func TestValidator_ExcludingSelfAndOtherDoctors(t *testing.T) {
	other := appointment(2, monday, "09:00", "09:30", domain.StatusConfirmed)
	other.DoctorID = doctorID + 1
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")},
		nil,
		[]*domain.Appointment{appointment(1, monday, "09:00", "09:30", domain.StatusConfirmed), other},
	)
	v := NewValidator(clock, time.UTC)

	assert.ErrorIs(t, v.Validate(snapshot, proposal(monday, "09:10", "09:40")), domain.ErrSchedulingConflict)
	assert.NoError(t, v.Validate(snapshot, proposal(monday, "09:10", "09:40"), ExcludingAppointment(1)))
}

func TestValidator_Idempotent(t *testing.T) {
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")},
		nil,
		[]*domain.Appointment{appointment(1, monday, "09:00", "09:30", domain.StatusConfirmed)},
	)
	v := NewValidator(clock, time.UTC)
	p := proposal(monday, "09:15", "09:45")

	first := v.Validate(snapshot, p)
	second := v.Validate(snapshot, p)

	assert.Equal(t, first, second)
	assert.Len(t, snapshot.Ledger.OccupiedOn(doctorID, monday), 1)
}

func TestWorkingHoursCalendar(t *testing.T) {
	c := NewWorkingHoursCalendar(nil)

	require.NoError(t, c.Add(doctorID, domain.Monday, "14:00", "18:00"))
	require.NoError(t, c.Add(doctorID, domain.Monday, "08:00", "12:00"))
	// смежные окна не сливаются
	require.NoError(t, c.Add(doctorID, domain.Monday, "12:00", "14:00"))
	// другой врач не мешает
	require.NoError(t, c.Add(doctorID+1, domain.Monday, "09:00", "10:00"))

	err := c.Add(doctorID, domain.Monday, "11:00", "12:30")
	var overlap *domain.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, types.TimeString("08:00"), overlap.Existing.Start)

	assert.ErrorIs(t, c.Add(doctorID, domain.Tuesday, "10:00", "10:00"), domain.ErrInvalidTimeRange)

	windows := c.WindowsFor(doctorID, domain.Monday)
	require.Len(t, windows, 3)
	assert.Equal(t, types.TimeString("08:00"), windows[0].Start)
	assert.Equal(t, types.TimeString("12:00"), windows[1].Start)
	assert.Equal(t, types.TimeString("14:00"), windows[2].Start)

	// результат можно менять, не затрагивая календарь
	windows[0].Start = "00:00"
	assert.Equal(t, types.TimeString("08:00"), c.WindowsFor(doctorID, domain.Monday)[0].Start)

	assert.Empty(t, c.WindowsFor(doctorID, domain.Sunday))
}

func TestWorkingHoursCalendar_InactiveDoesNotBlockAdd(t *testing.T) {
	inactive := window(domain.Monday, "08:00", "13:00")
	inactive.Active = false
	c := NewWorkingHoursCalendar([]*domain.WorkingHours{inactive})

	assert.NoError(t, c.Add(doctorID, domain.Monday, "09:00", "10:00"))
}

func TestExceptionCalendar(t *testing.T) {
	c := NewExceptionCalendar(nil)

	require.NoError(t, c.Add(domain.Exception{DoctorID: doctorID, StartDate: date(2026, 7, 1), EndDate: date(2026, 7, 10), Reason: domain.ReasonVacation}))
	require.NoError(t, c.Add(domain.Exception{DoctorID: doctorID, StartDate: date(2026, 7, 5), EndDate: date(2026, 7, 5), Reason: domain.ReasonEmergency}))
	assert.ErrorIs(t, c.Add(domain.Exception{DoctorID: doctorID, StartDate: date(2026, 8, 2), EndDate: date(2026, 8, 1)}), ErrExceptionRange)

	reason, ok := c.FirstBlockingReason(doctorID, date(2026, 7, 5))
	require.True(t, ok)
	assert.Equal(t, domain.ReasonVacation, reason)

	assert.True(t, c.IsBlocked(doctorID, date(2026, 7, 10)))
	assert.False(t, c.IsBlocked(doctorID, date(2026, 7, 11)))
	assert.False(t, c.IsBlocked(doctorID+1, date(2026, 7, 5)))
}

func TestBookableSlots_ScenarioE(t *testing.T) {
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")},
		nil,
		[]*domain.Appointment{appointment(1, monday, "10:00", "10:30", domain.StatusConfirmed)},
	)

	slots := slices.Collect(BookableSlots(snapshot, doctorID, monday, monday))

	assert.Equal(t, []domain.Slot{
		{Date: monday, Start: "08:00", End: "10:00"},
		{Date: monday, Start: "10:30", End: "13:00"},
	}, slots)
}

func TestBookableSlots_Range(t *testing.T) {
	nextMonday := monday.AddDate(0, 0, 7)
	snapshot := NewSnapshot(
		[]*domain.WorkingHours{
			window(domain.Monday, "08:00", "10:00"),
			window(domain.Wednesday, "15:00", "16:00"),
		},
		[]*domain.Exception{{DoctorID: doctorID, StartDate: nextMonday, EndDate: nextMonday, Reason: domain.ReasonPersonal}},
		[]*domain.Appointment{
			appointment(1, monday, "08:00", "08:30", domain.StatusCancelled),
			appointment(2, monday, "09:30", "10:00", domain.StatusCompleted),
		},
	)

	seq := BookableSlots(snapshot, doctorID, monday, nextMonday)
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, []domain.Slot{
		{Date: monday, Start: "08:00", End: "09:30"},
		{Date: date(2026, 3, 4), Start: "15:00", End: "16:00"},
	}, first)
	assert.Equal(t, first, second)
}

func TestBookableSlots_NeverOverlapsOccupiedOrLeavesWindows(t *testing.T) {
	hours := []*domain.WorkingHours{window(domain.Monday, "08:00", "12:00"), window(domain.Monday, "13:00", "17:00")}
	appointments := []*domain.Appointment{
		appointment(1, monday, "07:30", "08:15", domain.StatusConfirmed),
		appointment(2, monday, "11:45", "13:30", domain.StatusPending),
		appointment(3, monday, "15:00", "15:20", domain.StatusInProgress),
		appointment(4, monday, "15:10", "15:40", domain.StatusNoShow),
	}
	snapshot := NewSnapshot(hours, nil, appointments)

	for slot := range BookableSlots(snapshot, doctorID, monday, monday) {
		r := domain.TimeRange{Start: slot.Start, End: slot.End}
		require.True(t, r.Valid())
		for _, a := range appointments {
			assert.False(t, r.Overlaps(a.TimeRange()), "slot %s overlaps appointment %d", r, a.ID)
		}
		inside := false
		for _, w := range hours {
			if !r.Start.IsBefore(w.StartTime) && !r.End.IsAfter(w.EndTime) {
				inside = true
			}
		}
		assert.True(t, inside, "slot %s outside windows", r)
	}
}

func TestBookableSlots_StopsEarly(t *testing.T) {
	snapshot := NewSnapshot([]*domain.WorkingHours{window(domain.Monday, "08:00", "13:00")}, nil, nil)

	count := 0
	for range BookableSlots(snapshot, doctorID, monday, monday.AddDate(0, 0, 60)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
