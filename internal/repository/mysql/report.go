package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type reportRepositoryImpl struct {
	db Querier
}

func NewReportRepository(db Querier) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListBusinesses retrieves the live businesses matching the filter, ordered by name
func (r *reportRepositoryImpl) ListBusinesses(ctx context.Context, filter report.Filter) ([]report.Business, error) {
	var where whereClause
	where.add("deleted_at IS NULL")
	where.addIn("id", filter.BusinessIDs)
	if filter.BusinessType != nil {
		where.add("business_type = ?", string(*filter.BusinessType))
	}

	query := `SELECT id, name, business_type FROM businesses` + where.String() + ` ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
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
	var where whereClause
	where.add("t.business_id = ?", businessID)
	where.add("t.deleted_at IS NULL")
	where.addRange("t.created_at", dateRange)

	query := `
		SELECT
			t.id,
			t.business_id,
			t.amount,
			t.created_at,
			t.membership_id,
			m.membership_type,
			t.item_id,
			i.name,
			t.quantity
		FROM transactions t
		LEFT JOIN memberships m ON t.membership_id = m.id
		LEFT JOIN items i ON t.item_id = i.id` + where.String() + `
		ORDER BY t.created_at DESC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []report.Transaction
	for rows.Next() {
		var t report.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.BusinessID,
			&t.Amount,
			&t.CreatedAt,
			&t.MembershipID,
			&t.MembershipType,
			&t.ItemID,
			&t.ItemName,
			&t.Quantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
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
	var where whereClause
	where.add("business_id = ?", businessID)
	where.add("deleted_at IS NULL")
	where.addRange("spent_at", dateRange)

	query := `SELECT id, business_id, cost, COALESCE(description, ''), spent_at FROM expenses` +
		where.String() + ` ORDER BY spent_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []report.Expense
	for rows.Next() {
		var e report.Expense
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.Cost, &e.Description, &e.SpentAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
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
	var where whereClause
	where.add("e.business_id = ?", businessID)
	where.add("s.deleted_at IS NULL")
	where.addRange("s.start_time", dateRange)
	where.addIn("e.id", employeeIDs)

	query := `
		SELECT
			sa.id,
			sa.total_hours,
			s.id,
			s.start_time,
			s.end_time,
			s.attraction_id,
			a.name,
			e.id,
			e.business_id,
			e.first_name,
			e.last_name,
			COALESCE(e.job_title, ''),
			e.hourly_wage
		FROM shift_assignments sa
		JOIN shifts s ON sa.shift_id = s.id
		JOIN employees e ON sa.employee_id = e.id
		LEFT JOIN attractions a ON s.attraction_id = a.id` + where.String() + `
		ORDER BY s.start_time DESC, sa.id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []report.ShiftAssignment
	for rows.Next() {
		var a report.ShiftAssignment
		if err := rows.Scan(
			&a.ID,
			&a.TotalHours,
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
			&a.Employee.HourlyWage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift assignments: %w", err)
	}

	return assignments, nil
}

// ListClockEvents retrieves the clock events of the employees starting in [from, to]
func (r *reportRepositoryImpl) ListClockEvents(ctx context.Context, employeeIDs []string, from, to time.Time) ([]report.ClockEvent, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	var where whereClause
	where.addIn("employee_id", employeeIDs)
	where.add("start_time >= ?", from.UTC())
	where.add("start_time <= ?", to.UTC())

	query := `SELECT id, employee_id, shift_id, start_time, end_time FROM clock_times` +
		where.String() + ` ORDER BY start_time ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
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

// whereClause accumulates AND-ed conditions and their positional arguments.
type whereClause struct {
	conditions []string
	args       []any
}

func (w *whereClause) add(condition string, args ...any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

// addIn is a no-op for an empty list, which leaves the column unconstrained.
func (w *whereClause) addIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	w.add(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

func (w *whereClause) addRange(column string, dateRange report.DateRange) {
	if dateRange.Start != nil {
		w.add(column+" >= ?", dateRange.Start.UTC())
	}
	if dateRange.End != nil {
		w.add(column+" <= ?", dateRange.End.UTC())
	}
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}
