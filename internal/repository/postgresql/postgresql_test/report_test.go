package postgresql_test_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/zoo-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/zoo-backend-go/internal/repository/postgresql/postgresql_test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportDB(t *testing.T) *postgresql_test.TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := postgresql_test.NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	require.NoError(t, setup.Migrate(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

func insertBusiness(t *testing.T, ctx context.Context, setup *postgresql_test.TestDatabaseSetup, name string, bt report.BusinessType, deleted bool) string {
	id := uuid.NewString()
	var deletedAt *time.Time
	if deleted {
		now := time.Now()
		deletedAt = &now
	}
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO businesses (id, name, business_type, deleted_at)
		VALUES ($1, $2, $3, $4)
	`, id, name, string(bt), deletedAt)
	require.NoError(t, err)
	return id
}

func TestReportRepository_ListBusinesses(t *testing.T) {
	setup := setupReportDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(setup.DB)

	zoo := insertBusiness(t, ctx, setup, "Main Gate Zoo", report.BusinessTypeZoo, false)
	shop := insertBusiness(t, ctx, setup, "Gift Shop", report.BusinessTypeRetail, false)
	insertBusiness(t, ctx, setup, "Closed Kiosk", report.BusinessTypeFood, true)

	t.Run("all live businesses by name", func(t *testing.T) {
		businesses, err := repo.ListBusinesses(ctx, report.Filter{})
		require.NoError(t, err)
		require.Len(t, businesses, 2)
		assert.Equal(t, shop, businesses[0].ID)
		assert.Equal(t, zoo, businesses[1].ID)
	})

	t.Run("by type", func(t *testing.T) {
		bt := report.BusinessTypeZoo
		businesses, err := repo.ListBusinesses(ctx, report.Filter{BusinessType: &bt})
		require.NoError(t, err)
		require.Len(t, businesses, 1)
		assert.Equal(t, "Main Gate Zoo", businesses[0].Name)
	})

	t.Run("by ids", func(t *testing.T) {
		businesses, err := repo.ListBusinesses(ctx, report.Filter{BusinessIDs: []string{shop}})
		require.NoError(t, err)
		require.Len(t, businesses, 1)
		assert.Equal(t, report.BusinessTypeRetail, businesses[0].Type)
	})
}

func TestReportRepository_ListTransactionsAndExpenses(t *testing.T) {
	setup := setupReportDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(setup.DB)

	zoo := insertBusiness(t, ctx, setup, "Main Gate Zoo", report.BusinessTypeZoo, false)
	item := uuid.NewString()
	_, err := setup.DB.Exec(ctx, `INSERT INTO items (id, name) VALUES ($1, 'Plush Lion')`, item)
	require.NoError(t, err)

	june3 := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	july1 := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO transactions (id, business_id, amount, created_at, item_id, quantity, deleted_at) VALUES
			($1, $2, 24.95, $3, $4, 2, NULL),
			($5, $2, 10.004, $3, NULL, NULL, NULL),
			($6, $2, 99.00, $3, NULL, NULL, NOW()),
			($7, $2, 5.00, $8, NULL, NULL, NULL)
	`, uuid.NewString(), zoo, june3, item, uuid.NewString(), uuid.NewString(), uuid.NewString(), july1)
	require.NoError(t, err)

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO expenses (id, business_id, cost, description, spent_at) VALUES ($1, $2, 10.00, 'Feed', $3)
	`, uuid.NewString(), zoo, june3)
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	dateRange := report.DateRange{Start: &start, End: &end}

	transactions, err := repo.ListTransactions(ctx, zoo, dateRange)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	var descriptions []string
	for _, tx := range transactions {
		descriptions = append(descriptions, tx.Description())
	}
	assert.ElementsMatch(t, []string{"Plush Lion x2", "General admission"}, descriptions)

	expenses, err := repo.ListExpenses(ctx, zoo, dateRange)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "10.00", expenses[0].Cost.StringFixed(2))
	assert.Equal(t, "Feed", expenses[0].Description)

	unbounded, err := repo.ListTransactions(ctx, zoo, report.DateRange{})
	require.NoError(t, err)
	assert.Len(t, unbounded, 3)
	assert.True(t, unbounded[0].CreatedAt.Equal(july1))
}

func TestReportRepository_ShiftsAndClockEvents(t *testing.T) {
	setup := setupReportDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(setup.DB)

	zoo := insertBusiness(t, ctx, setup, "Main Gate Zoo", report.BusinessTypeZoo, false)
	employee := uuid.NewString()
	shift := uuid.NewString()
	shiftStart := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO employees (id, business_id, first_name, last_name, job_title, hourly_wage)
		VALUES ($1, $2, 'Ada', 'Keeper', 'Zookeeper', 15.00)
	`, employee, zoo)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `INSERT INTO shifts (id, start_time, end_time) VALUES ($1, $2, $3)`,
		shift, shiftStart, shiftStart.Add(8*time.Hour))
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `
		INSERT INTO shift_assignments (id, shift_id, employee_id, total_hours) VALUES ($1, $2, $3, 8)
	`, uuid.NewString(), shift, employee)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `
		INSERT INTO clock_times (id, employee_id, shift_id, start_time) VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), employee, shift, shiftStart.Add(-5*time.Minute))
	require.NoError(t, err)

	assignments, err := repo.ListShiftAssignments(ctx, zoo, report.DateRange{}, nil)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Ada Keeper", assignments[0].Employee.FullName())
	assert.Equal(t, "120.00", assignments[0].TotalHours.Mul(assignments[0].Employee.HourlyWage).StringFixed(2))
	assert.Nil(t, assignments[0].Shift.AttractionID)

	filtered, err := repo.ListShiftAssignments(ctx, zoo, report.DateRange{}, []string{uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, filtered)

	// reads inside a caller's transaction go through it
	tx, err := setup.DB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	txCtx := context.WithValue(ctx, "tx", tx)

	events, err := repo.ListClockEvents(txCtx, []string{employee}, shiftStart.Add(-6*time.Hour), shiftStart.Add(6*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].ShiftID)
	assert.Equal(t, shift, *events[0].ShiftID)
	assert.Nil(t, events[0].End)
}
