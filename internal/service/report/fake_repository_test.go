package report

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// fakeReportRepository is an in-memory report store. Rows are returned
// unsorted so ordering is exercised in the engine.
type fakeReportRepository struct {
	mu sync.Mutex

	businesses   []report.Business
	transactions map[string][]report.Transaction
	expenses     map[string][]report.Expense
	assignments  map[string][]report.ShiftAssignment
	clockEvents  []report.ClockEvent

	// errors keyed by "<method>:<businessID>"
	failures map[string]error
	delays   map[string]time.Duration

	calls         int
	clockLookups  int
	lastClockFrom time.Time
	lastClockTo   time.Time
}

func newFakeReportRepository() *fakeReportRepository {
	return &fakeReportRepository{
		transactions: make(map[string][]report.Transaction),
		expenses:     make(map[string][]report.Expense),
		assignments:  make(map[string][]report.ShiftAssignment),
		failures:     make(map[string]error),
		delays:       make(map[string]time.Duration),
	}
}

func (r *fakeReportRepository) record() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *fakeReportRepository) wait(ctx context.Context, businessID string) error {
	d, ok := r.delays[businessID]
	if !ok {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *fakeReportRepository) ListBusinesses(ctx context.Context, filter report.Filter) ([]report.Business, error) {
	r.record()
	if err := r.failures["businesses:"]; err != nil {
		return nil, err
	}
	var result []report.Business
	for _, b := range r.businesses {
		if filter.MatchesBusiness(b) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeReportRepository) ListTransactions(ctx context.Context, businessID string, dateRange report.DateRange) ([]report.Transaction, error) {
	r.record()
	if err := r.wait(ctx, businessID); err != nil {
		return nil, err
	}
	if err := r.failures["transactions:"+businessID]; err != nil {
		return nil, err
	}
	return r.transactions[businessID], nil
}

func (r *fakeReportRepository) ListExpenses(ctx context.Context, businessID string, dateRange report.DateRange) ([]report.Expense, error) {
	r.record()
	if err := r.wait(ctx, businessID); err != nil {
		return nil, err
	}
	if err := r.failures["expenses:"+businessID]; err != nil {
		return nil, err
	}
	return r.expenses[businessID], nil
}

func (r *fakeReportRepository) ListShiftAssignments(ctx context.Context, businessID string, dateRange report.DateRange, employeeIDs []string) ([]report.ShiftAssignment, error) {
	r.record()
	if err := r.wait(ctx, businessID); err != nil {
		return nil, err
	}
	if err := r.failures["assignments:"+businessID]; err != nil {
		return nil, err
	}
	return r.assignments[businessID], nil
}

func (r *fakeReportRepository) ListClockEvents(ctx context.Context, employeeIDs []string, from, to time.Time) ([]report.ClockEvent, error) {
	r.record()
	r.mu.Lock()
	r.clockLookups++
	r.lastClockFrom, r.lastClockTo = from, to
	r.mu.Unlock()

	if err := r.failures["clock:"]; err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	var result []report.ClockEvent
	for _, e := range r.clockEvents {
		if wanted[e.EmployeeID] && !e.Start.Before(from) && !e.Start.After(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeReportRepository) addBusiness(id, name string, bt report.BusinessType) {
	r.businesses = append(r.businesses, report.Business{ID: id, Name: name, Type: bt})
}

func (r *fakeReportRepository) addTransaction(businessID, id, amount string, at time.Time) {
	r.transactions[businessID] = append(r.transactions[businessID], report.Transaction{
		ID:         id,
		BusinessID: businessID,
		Amount:     dec(amount),
		CreatedAt:  at,
	})
}

func (r *fakeReportRepository) addExpense(businessID, id, cost string, at time.Time) {
	r.expenses[businessID] = append(r.expenses[businessID], report.Expense{
		ID:          id,
		BusinessID:  businessID,
		Cost:        dec(cost),
		Description: "Supplies",
		SpentAt:     at,
	})
}
