package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/ptr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

var (
	day     = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created = time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
)

// tailMatcher сверяет окончание запроса: WHERE, ORDER BY и суффикс
var tailMatcher = sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
	if !strings.HasSuffix(actualSQL, expectedSQL) {
		return fmt.Errorf("query %q does not end with %q", actualSQL, expectedSQL)
	}
	return nil
})

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(tailMatcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns).
		AddRow(int64(11), int64(7), int64(3), day, "09:00:00", "09:30:00", "control", "confirmed",
			"control anual", nil, nil, nil, created, created)
}

func TestCreate(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("RETURNING id, created_at, updated_at").
		WithArgs(int64(7), int64(3), "2026-03-02", "09:00", "09:30", "control", "pending", "fiebre", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), created, created))

	a, err := repo.Create(context.Background(), &domain.Appointment{
		DoctorID: 7, PatientID: 3, Date: day,
		StartTime: types.TimeString("09:00"), EndTime: types.TimeString("09:30"),
		Type: domain.TypeFollowUp, Status: domain.StatusPending, Motive: "fiebre",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), a.ID)
	assert.Equal(t, created, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("RETURNING id, created_at, updated_at").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "appointments_active_slot_uniq"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		DoctorID: 7, PatientID: 3, Date: day,
		StartTime: types.TimeString("09:00"), EndTime: types.TimeString("09:30"),
		Type: domain.TypeFirstVisit, Status: domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrDuplicateSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherDatabaseError(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("RETURNING id, created_at, updated_at").
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		DoctorID: 7, PatientID: 3, Date: day,
		StartTime: types.TimeString("09:00"), EndTime: types.TimeString("09:30"),
	})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrDuplicateSlot)
}

func TestUpdateSchedule_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("updated_at = NOW() WHERE id = $4").
		WithArgs("2026-03-03", "10:00", "10:30", int64(11)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.UpdateSchedule(context.Background(), 11, day.AddDate(0, 0, 1),
		types.TimeString("10:00"), types.TimeString("10:30"))

	assert.ErrorIs(t, err, ErrDuplicateSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithFilter_Query(t *testing.T) {
	next := day.AddDate(0, 0, 6)

	tests := []struct {
		name     string
		filter   domain.AppointmentsFilter
		inTx     bool
		wantTail string
		wantArgs []interface{}
	}{
		{
			name: "day check inside transaction locks rows",
			filter: domain.AppointmentsFilter{
				DoctorID: ptr.Ptr(int64(7)), StartDate: &day, EndDate: &day,
				Statuses: domain.BlockingStatuses,
			},
			inTx:     true,
			wantTail: "WHERE doctor_id = $1 AND appointment_date >= $2 AND appointment_date <= $3 AND status IN ($4,$5,$6) ORDER BY appointment_date ASC, start_time ASC FOR UPDATE",
			wantArgs: []interface{}{int64(7), "2026-03-02", "2026-03-02", "pending", "confirmed", "in_progress"},
		},
		{
			name:     "same day outside transaction is a plain read",
			filter:   domain.AppointmentsFilter{DoctorID: ptr.Ptr(int64(7)), StartDate: &day, EndDate: &day},
			wantTail: "WHERE doctor_id = $1 AND appointment_date >= $2 AND appointment_date <= $3 ORDER BY appointment_date ASC, start_time ASC",
			wantArgs: []interface{}{int64(7), "2026-03-02", "2026-03-02"},
		},
		{
			name:     "range inside transaction is not locked",
			filter:   domain.AppointmentsFilter{DoctorID: ptr.Ptr(int64(7)), StartDate: &day, EndDate: &next},
			inTx:     true,
			wantTail: "WHERE doctor_id = $1 AND appointment_date >= $2 AND appointment_date <= $3 ORDER BY appointment_date ASC, start_time ASC",
			wantArgs: []interface{}{int64(7), "2026-03-02", "2026-03-08"},
		},
		{
			name:     "patient history newest first",
			filter:   domain.AppointmentsFilter{PatientID: ptr.Ptr(int64(3)), Statuses: []domain.AppointmentStatus{domain.StatusCompleted}},
			wantTail: "WHERE patient_id = $1 AND status IN ($2) ORDER BY appointment_date DESC, start_time DESC",
			wantArgs: []interface{}{int64(3), "completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db, mock := newRepo(t)
			ctx := context.Background()

			if tt.inTx {
				mock.ExpectBegin()
				tx, err := db.Begin()
				require.NoError(t, err)
				ctx = dbmetrics.WithTx(ctx, tx)
				defer func() {
					mock.ExpectRollback()
					_ = tx.Rollback()
				}()
			}

			mock.ExpectQuery(tt.wantTail).WithArgs(tt.wantArgs...).WillReturnRows(appointmentRows())

			got, err := repo.GetWithFilter(ctx, tt.filter)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, day, got[0].Date)
			assert.Equal(t, types.TimeString("09:00"), got[0].StartTime)
			assert.Equal(t, types.TimeString("09:30"), got[0].EndTime)
			assert.Equal(t, domain.StatusConfirmed, got[0].Status)
			assert.Nil(t, got[0].Notes)
		})
	}
}

func TestGetByID(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectQuery("FROM appointments WHERE id = $1").
		WithArgs(int64(11)).
		WillReturnRows(appointmentRows())

	a, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), a.ID)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	mock.ExpectQuery("WHERE id = $1 FOR UPDATE").
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 12)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StatusChanged(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3").
		WithArgs("confirmed", int64(11), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 11, domain.StatusPending, domain.StatusConfirmed)

	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
