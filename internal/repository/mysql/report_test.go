package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (report.ReportRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportRepository(db), mock
}

func TestReportRepository_ListBusinesses(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	retail := report.BusinessTypeRetail
	filter := report.Filter{BusinessIDs: []string{"b1", "b2"}, BusinessType: &retail}

	mock.ExpectQuery(`SELECT id, name, business_type FROM businesses WHERE deleted_at IS NULL AND id IN \(\?, \?\) AND business_type = \? ORDER BY name ASC, id ASC`).
		WithArgs("b1", "b2", "retail").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "business_type"}).
			AddRow("b1", "Aquarium Shop", "retail").
			AddRow("b2", "Gift Shop", "retail"))

	businesses, err := repo.ListBusinesses(ctx, filter)
	require.NoError(t, err)
	require.Len(t, businesses, 2)
	assert.Equal(t, report.Business{ID: "b1", Name: "Aquarium Shop", Type: report.BusinessTypeRetail}, businesses[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListBusinesses_NoFilter(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM businesses WHERE deleted_at IS NULL ORDER BY`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "business_type"}))

	businesses, err := repo.ListBusinesses(ctx, report.Filter{})
	require.NoError(t, err)
	assert.Empty(t, businesses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListTransactions(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	created := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM transactions t\s+LEFT JOIN memberships m .* WHERE t.business_id = \? AND t.deleted_at IS NULL AND t.created_at >= \? AND t.created_at <= \?`).
		WithArgs("b1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_id", "amount", "created_at", "membership_id", "membership_type", "item_id", "name", "quantity",
		}).
			AddRow("t1", "b1", "24.95", created, nil, nil, "i1", "Plush Lion", int64(2)).
			AddRow("t2", "b1", []byte("10.004"), created, "m1", "Gold", nil, nil, nil))

	rows, err := repo.ListTransactions(ctx, "b1", report.DateRange{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "24.95", rows[0].Amount.String())
	require.NotNil(t, rows[0].Quantity)
	assert.Equal(t, 2, *rows[0].Quantity)
	assert.Nil(t, rows[0].MembershipID)
	assert.Equal(t, "Plush Lion x2", rows[0].Description())

	assert.Equal(t, "10.004", rows[1].Amount.String())
	assert.Equal(t, "Gold membership", rows[1].Description())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListExpenses_QueryError(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	errBoom := errors.New("connection refused")
	mock.ExpectQuery(`FROM expenses WHERE business_id = \? AND deleted_at IS NULL ORDER BY spent_at DESC`).
		WithArgs("b1").
		WillReturnError(errBoom)

	_, err := repo.ListExpenses(ctx, "b1", report.DateRange{})
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListShiftAssignments(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	shiftStart := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	shiftEnd := shiftStart.Add(8 * time.Hour)

	mock.ExpectQuery(`FROM shift_assignments sa.* WHERE e.business_id = \? AND s.deleted_at IS NULL AND e.id IN \(\?\)`).
		WithArgs("b1", "e1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "total_hours", "shift_id", "start_time", "end_time", "attraction_id", "attraction_name",
			"employee_id", "business_id", "first_name", "last_name", "job_title", "hourly_wage",
		}).
			AddRow("a1", "8.00", "s1", shiftStart, shiftEnd, "at1", "Lion Enclosure", "e1", "b1", "Ada", "Keeper", "Zookeeper", "15.00"))

	rows, err := repo.ListShiftAssignments(ctx, "b1", report.DateRange{}, []string{"e1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	a := rows[0]
	assert.Equal(t, "s1", a.Shift.ID)
	assert.Equal(t, shiftEnd, a.Shift.End)
	require.NotNil(t, a.Shift.AttractionName)
	assert.Equal(t, "Lion Enclosure", *a.Shift.AttractionName)
	assert.Equal(t, "Ada Keeper", a.Employee.FullName())
	assert.Equal(t, "120", a.TotalHours.Mul(a.Employee.HourlyWage).String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListClockEvents(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)

	from := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)
	clockIn := time.Date(2024, 6, 10, 8, 55, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM clock_times WHERE employee_id IN \(\?, \?\) AND start_time >= \? AND start_time <= \?`).
		WithArgs("e1", "e2", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "shift_id", "start_time", "end_time"}).
			AddRow("c1", "e1", nil, clockIn, nil))

	events, err := repo.ListClockEvents(ctx, []string{"e1", "e2"}, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].ShiftID)
	assert.Nil(t, events[0].End)
	assert.Equal(t, clockIn, events[0].Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListClockEvents_NoEmployees(t *testing.T) {
	repo, mock := newMockRepository(t)

	events, err := repo.ListClockEvents(context.Background(), nil, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
