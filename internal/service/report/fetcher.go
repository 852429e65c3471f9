package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"golang.org/x/sync/errgroup"
)

const defaultMaxParallel = 8

type revenueBundle struct {
	business     report.Business
	transactions []report.Transaction
	expenses     []report.Expense
}

type shiftBundle struct {
	business    report.Business
	assignments []report.ShiftAssignment
	clockEvents []report.ClockEvent
}

// fetcher loads the root businesses and, per business, its dependent records.
// Per-business branches run concurrently; results are written by index so the
// business order is kept regardless of completion order.
type fetcher struct {
	repo        report.ReportRepository
	maxParallel int
	// clockPadding widens the clock-event lookup around the shift windows.
	clockPadding time.Duration
}

func (f *fetcher) businesses(ctx context.Context, filter report.Filter) ([]report.Business, error) {
	rows, err := f.repo.ListBusinesses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	result := make([]report.Business, 0, len(rows))
	for _, b := range rows {
		if filter.MatchesBusiness(b) {
			result = append(result, b)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (f *fetcher) newGroup(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gCtx := errgroup.WithContext(ctx)
	limit := f.maxParallel
	if limit <= 0 {
		limit = defaultMaxParallel
	}
	g.SetLimit(limit)
	return g, gCtx
}

func (f *fetcher) revenue(ctx context.Context, filter report.Filter) ([]revenueBundle, error) {
	businesses, err := f.businesses(ctx, filter)
	if err != nil {
		return nil, err
	}

	bundles := make([]revenueBundle, len(businesses))
	g, gCtx := f.newGroup(ctx)

	for i, b := range businesses {
		bundles[i].business = b

		g.Go(func() error {
			rows, err := f.repo.ListTransactions(gCtx, b.ID, filter.DateRange)
			if err != nil {
				return fmt.Errorf("list transactions for business %s: %w", b.ID, err)
			}
			bundles[i].transactions = liveTransactions(rows, b.ID, filter.DateRange)
			return nil
		})

		g.Go(func() error {
			rows, err := f.repo.ListExpenses(gCtx, b.ID, filter.DateRange)
			if err != nil {
				return fmt.Errorf("list expenses for business %s: %w", b.ID, err)
			}
			bundles[i].expenses = liveExpenses(rows, b.ID, filter.DateRange)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (f *fetcher) shifts(ctx context.Context, filter report.Filter) ([]shiftBundle, error) {
	businesses, err := f.businesses(ctx, filter)
	if err != nil {
		return nil, err
	}

	bundles := make([]shiftBundle, len(businesses))
	g, gCtx := f.newGroup(ctx)

	for i, b := range businesses {
		bundles[i].business = b

		g.Go(func() error {
			rows, err := f.repo.ListShiftAssignments(gCtx, b.ID, filter.DateRange, filter.EmployeeIDs)
			if err != nil {
				return fmt.Errorf("list shift assignments for business %s: %w", b.ID, err)
			}
			assignments := liveAssignments(rows, filter)
			bundles[i].assignments = assignments

			if len(assignments) == 0 {
				return nil
			}

			employeeIDs, from, to := clockLookup(assignments, f.clockPadding)
			events, err := f.repo.ListClockEvents(gCtx, employeeIDs, from, to)
			if err != nil {
				return fmt.Errorf("list clock events for business %s: %w", b.ID, err)
			}
			bundles[i].clockEvents = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

// liveTransactions drops soft-deleted and out-of-scope rows and orders the
// rest newest first.
func liveTransactions(rows []report.Transaction, businessID string, dateRange report.DateRange) []report.Transaction {
	result := make([]report.Transaction, 0, len(rows))
	for _, t := range rows {
		if t.DeletedAt != nil || t.BusinessID != businessID || !dateRange.Contains(t.CreatedAt) {
			continue
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func liveExpenses(rows []report.Expense, businessID string, dateRange report.DateRange) []report.Expense {
	result := make([]report.Expense, 0, len(rows))
	for _, e := range rows {
		if e.DeletedAt != nil || e.BusinessID != businessID || !dateRange.Contains(e.SpentAt) {
			continue
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].SpentAt.Equal(result[j].SpentAt) {
			return result[i].SpentAt.After(result[j].SpentAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func liveAssignments(rows []report.ShiftAssignment, filter report.Filter) []report.ShiftAssignment {
	result := make([]report.ShiftAssignment, 0, len(rows))
	for _, a := range rows {
		if a.Shift.DeletedAt != nil || !filter.MatchesEmployee(a.Employee.ID) || !filter.DateRange.Contains(a.Shift.Start) {
			continue
		}
		result = append(result, a)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Shift.Start.Equal(result[j].Shift.Start) {
			return result[i].Shift.Start.After(result[j].Shift.Start)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// clockLookup returns the distinct employees of the assignments and the time
// span that covers every shift widened by padding on both sides.
func clockLookup(assignments []report.ShiftAssignment, padding time.Duration) ([]string, time.Time, time.Time) {
	seen := make(map[string]struct{}, len(assignments))
	var employeeIDs []string
	from := assignments[0].Shift.Start
	to := assignments[0].Shift.End

	for _, a := range assignments {
		if _, ok := seen[a.Employee.ID]; !ok {
			seen[a.Employee.ID] = struct{}{}
			employeeIDs = append(employeeIDs, a.Employee.ID)
		}
		if a.Shift.Start.Before(from) {
			from = a.Shift.Start
		}
		if a.Shift.End.After(to) {
			to = a.Shift.End
		}
		if a.Shift.Start.After(to) {
			to = a.Shift.Start
		}
	}

	sort.Strings(employeeIDs)
	return employeeIDs, from.Add(-padding), to.Add(padding)
}
