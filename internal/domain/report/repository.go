package report

import (
	"context"
	"time"
)

// BusinessReader resolves the root business set for a filter. Implementations
// apply the id and category predicates, exclude soft-deleted rows and order
// by name ascending with id as tie-break.
type BusinessReader interface {
	ListBusinesses(ctx context.Context, filter Filter) ([]Business, error)
}

// RevenueReader loads one business's revenue records, newest first.
type RevenueReader interface {
	ListTransactions(ctx context.Context, businessID string, dateRange DateRange) ([]Transaction, error)
	ListExpenses(ctx context.Context, businessID string, dateRange DateRange) ([]Expense, error)
}

// ShiftReader loads one business's shift assignments (by shift start, newest
// first) and the clock events recorded by a set of employees.
type ShiftReader interface {
	ListShiftAssignments(ctx context.Context, businessID string, dateRange DateRange, employeeIDs []string) ([]ShiftAssignment, error)
	ListClockEvents(ctx context.Context, employeeIDs []string, from, to time.Time) ([]ClockEvent, error)
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	BusinessReader
	RevenueReader
	ShiftReader
}
