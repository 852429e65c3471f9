package report

import (
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

// Sums are accumulated as exact decimals. Each business total is rounded once;
// grand totals add up those rounded per-business values, never the raw records.

type revenueTotals struct {
	business     report.Business
	transactions []report.Transaction
	expenses     []report.Expense

	totalRevenue  report.Amount
	totalExpenses report.Amount
	netProfit     report.Amount
}

func rollupRevenue(b revenueBundle) revenueTotals {
	revenue := decimal.Zero
	for _, t := range b.transactions {
		revenue = revenue.Add(t.Amount)
	}

	expenses := decimal.Zero
	for _, e := range b.expenses {
		expenses = expenses.Add(e.Cost)
	}

	totalRevenue := report.NewAmount(revenue)
	totalExpenses := report.NewAmount(expenses)

	return revenueTotals{
		business:      b.business,
		transactions:  b.transactions,
		expenses:      b.expenses,
		totalRevenue:  totalRevenue,
		totalExpenses: totalExpenses,
		netProfit:     totalRevenue.Minus(totalExpenses),
	}
}

func aggregateRevenue(totals []revenueTotals) report.RevenueAggregate {
	agg := report.RevenueAggregate{
		BusinessCount: len(totals),
		Businesses:    make([]report.RevenueDigest, 0, len(totals)),
	}

	for _, t := range totals {
		agg.TotalRevenue = agg.TotalRevenue.Plus(t.totalRevenue)
		agg.TotalExpenses = agg.TotalExpenses.Plus(t.totalExpenses)
		agg.NetProfit = agg.NetProfit.Plus(t.netProfit)
		agg.TransactionCount += len(t.transactions)
		agg.ExpenseCount += len(t.expenses)
		agg.Businesses = append(agg.Businesses, report.RevenueDigest{
			BusinessID:   t.business.ID,
			BusinessName: t.business.Name,
			BusinessType: t.business.Type,
			NetProfit:    t.netProfit,
		})
	}

	return agg
}

type correlatedShift struct {
	assignment  report.ShiftAssignment
	clockEvents []report.ClockEvent
	laborCost   decimal.Decimal
	status      report.ShiftStatus
}

type shiftTotals struct {
	business report.Business
	shifts   []correlatedShift

	totalHours      report.Amount
	totalLaborCost  report.Amount
	uniqueEmployees int
	completed       int
	missed          int
	upcoming        int
}

func rollupShifts(b shiftBundle, correlator Correlator, now time.Time) shiftTotals {
	totals := shiftTotals{
		business: b.business,
		shifts:   make([]correlatedShift, 0, len(b.assignments)),
	}

	hours := decimal.Zero
	laborCost := decimal.Zero
	employees := make(map[string]struct{}, len(b.assignments))

	for _, a := range b.assignments {
		matches := correlator.Correlate(a, b.clockEvents)
		cost := a.TotalHours.Mul(a.Employee.HourlyWage)
		status := ClassifyShift(a.Shift, len(matches), now)

		hours = hours.Add(a.TotalHours)
		laborCost = laborCost.Add(cost)
		employees[a.Employee.ID] = struct{}{}

		switch status {
		case report.ShiftStatusCompleted:
			totals.completed++
		case report.ShiftStatusMissed:
			totals.missed++
		default:
			totals.upcoming++
		}

		totals.shifts = append(totals.shifts, correlatedShift{
			assignment:  a,
			clockEvents: matches,
			laborCost:   cost,
			status:      status,
		})
	}

	totals.totalHours = report.NewAmount(hours)
	totals.totalLaborCost = report.NewAmount(laborCost)
	totals.uniqueEmployees = len(employees)
	return totals
}

func aggregateShifts(totals []shiftTotals) report.ShiftAggregate {
	agg := report.ShiftAggregate{
		BusinessCount: len(totals),
		Businesses:    make([]report.ShiftDigest, 0, len(totals)),
	}

	for _, t := range totals {
		agg.TotalHours = agg.TotalHours.Plus(t.totalHours)
		agg.TotalLaborCost = agg.TotalLaborCost.Plus(t.totalLaborCost)
		agg.AssignmentCount += len(t.shifts)
		agg.UniqueEmployeeCount += t.uniqueEmployees
		agg.CompletedCount += t.completed
		agg.MissedCount += t.missed
		agg.UpcomingCount += t.upcoming
		agg.Businesses = append(agg.Businesses, report.ShiftDigest{
			BusinessID:     t.business.ID,
			BusinessName:   t.business.Name,
			BusinessType:   t.business.Type,
			TotalLaborCost: t.totalLaborCost,
		})
	}

	return agg
}
