package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListBusinesses retrieves the live businesses matching the filter, ordered by name
func (r *reportRepositoryImpl) ListBusinesses(ctx context.Context, filter report.Filter) ([]report.Business, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, name, business_type
		FROM businesses
		WHERE deleted_at IS NULL
			AND (cardinality($1::text[]) = 0 OR id::text = ANY($1::text[]))
			AND ($2::text IS NULL OR business_type = $2::text)
		ORDER BY name ASC, id ASC
	`

	var businessType *string
	if filter.BusinessType != nil {
		bt := string(*filter.BusinessType)
		businessType = &bt
	}

	rows, err := q.Query(ctx, query, textArray(filter.BusinessIDs), businessType)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	var businesses []report.Business
	for rows.Next() {
		var b report.Business
		var businessType string
		if err := rows.Scan(&b.ID, &b.Name, &businessType); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		b.Type = report.BusinessType(businessType)
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}

	return businesses, nil
}

// ListTransactions retrieves the live transactions of a business, newest first
func (r *reportRepositoryImpl) ListTransactions(ctx context.Context, businessID string, dateRange report.DateRange) ([]report.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			t.id::text,
			t.business_id::text,
			t.amount::text,
			t.created_at,
			t.membership_id::text,
			m.membership_type,
			t.item_id::text,
			i.name,
			t.quantity
		FROM transactions t
		LEFT JOIN memberships m ON t.membership_id = m.id
		LEFT JOIN items i ON t.item_id = i.id
		WHERE t.business_id::text = $1
			AND t.deleted_at IS NULL
			AND ($2::timestamptz IS NULL OR t.created_at >= $2::timestamptz)
			AND ($3::timestamptz IS NULL OR t.created_at <= $3::timestamptz)
		ORDER BY t.created_at DESC, t.id ASC
	`

	rows, err := q.Query(ctx, query, businessID, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []report.Transaction
	for rows.Next() {
		var t report.Transaction
		var amount string
		if err := rows.Scan(
			&t.ID,
			&t.BusinessID,
			&amount,
			&t.CreatedAt,
			&t.MembershipID,
			&t.MembershipType,
			&t.ItemID,
			&t.ItemName,
			&t.Quantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount on transaction %s: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// ListExpenses retrieves the live expenses of a business, newest first
func (r *reportRepositoryImpl) ListExpenses(ctx context.Context, businessID string, dateRange report.DateRange) ([]report.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, business_id::text, cost::text, COALESCE(description, ''), spent_at
		FROM expenses
		WHERE business_id::text = $1
			AND deleted_at IS NULL
			AND ($2::timestamptz IS NULL OR spent_at >= $2::timestamptz)
			AND ($3::timestamptz IS NULL OR spent_at <= $3::timestamptz)
		ORDER BY spent_at DESC, id ASC
	`

	rows, err := q.Query(ctx, query, businessID, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []report.Expense
	for rows.Next() {
		var e report.Expense
		var cost string
		if err := rows.Scan(&e.ID, &e.BusinessID, &cost, &e.Description, &e.SpentAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("invalid cost on expense %s: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// ListShiftAssignments retrieves the assignments of the business's employees
// to live shifts starting inside the range, newest shift first
func (r *reportRepositoryImpl) ListShiftAssignments(ctx context.Context, businessID string, dateRange report.DateRange, employeeIDs []string) ([]report.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			sa.id::text,
			sa.total_hours::text,
			s.id::text,
			s.start_time,
			s.end_time,
			s.attraction_id::text,
			a.name,
			e.id::text,
			e.business_id::text,
			e.first_name,
			e.last_name,
			COALESCE(e.job_title, ''),
			e.hourly_wage::text
		FROM shift_assignments sa
		JOIN shifts s ON sa.shift_id = s.id
		JOIN employees e ON sa.employee_id = e.id
		LEFT JOIN attractions a ON s.attraction_id = a.id
		WHERE e.business_id::text = $1
			AND s.deleted_at IS NULL
			AND ($2::timestamptz IS NULL OR s.start_time >= $2::timestamptz)
			AND ($3::timestamptz IS NULL OR s.start_time <= $3::timestamptz)
			AND (cardinality($4::text[]) = 0 OR e.id::text = ANY($4::text[]))
		ORDER BY s.start_time DESC, sa.id ASC
	`

	rows, err := q.Query(ctx, query, businessID, dateRange.Start, dateRange.End, textArray(employeeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query shift assignments: %w", err)
	}
	defer rows.Close()

	assignments, err := pgx.CollectRows(rows, scanShiftAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
	}
	return assignments, nil
}

func scanShiftAssignment(row pgx.CollectableRow) (report.ShiftAssignment, error) {
	var a report.ShiftAssignment
	var hours, wage string
	if err := row.Scan(
		&a.ID,
		&hours,
		&a.Shift.ID,
		&a.Shift.Start,
		&a.Shift.End,
		&a.Shift.AttractionID,
		&a.Shift.AttractionName,
		&a.Employee.ID,
		&a.Employee.BusinessID,
		&a.Employee.FirstName,
		&a.Employee.LastName,
		&a.Employee.JobTitle,
		&wage,
	); err != nil {
		return a, err
	}

	var err error
	if a.TotalHours, err = decimal.NewFromString(hours); err != nil {
		return a, fmt.Errorf("invalid total hours on assignment %s: %w", a.ID, err)
	}
	if a.Employee.HourlyWage, err = decimal.NewFromString(wage); err != nil {
		return a, fmt.Errorf("invalid hourly wage on employee %s: %w", a.Employee.ID, err)
	}
	return a, nil
}

// ListClockEvents retrieves the clock events of the employees starting in [from, to]
func (r *reportRepositoryImpl) ListClockEvents(ctx context.Context, employeeIDs []string, from, to time.Time) ([]report.ClockEvent, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, employee_id::text, shift_id::text, start_time, end_time
		FROM clock_times
		WHERE employee_id::text = ANY($1::text[])
			AND start_time >= $2
			AND start_time <= $3
		ORDER BY start_time ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock events: %w", err)
	}
	defer rows.Close()

	var events []report.ClockEvent
	for rows.Next() {
		var e report.ClockEvent
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ShiftID, &e.Start, &e.End); err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clock events: %w", err)
	}

	return events, nil
}

// textArray never returns nil so the array parameter is '{}' rather than NULL
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
