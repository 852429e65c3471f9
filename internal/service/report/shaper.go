package report

import (
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func shapeRevenueReport(level report.DetailLevel, dateRange report.DateRange, totals []revenueTotals) report.RevenueReport {
	result := report.RevenueReport{
		DetailLevel: level,
		StartDate:   dateRange.StartLabel,
		EndDate:     dateRange.EndLabel,
	}

	if level == report.DetailAggregated {
		agg := aggregateRevenue(totals)
		result.Aggregate = &agg
		return result
	}

	result.Businesses = make([]report.BusinessRevenue, 0, len(totals))
	for _, t := range totals {
		row := report.BusinessRevenue{
			BusinessID:       t.business.ID,
			BusinessName:     t.business.Name,
			BusinessType:     t.business.Type,
			TotalRevenue:     t.totalRevenue,
			TotalExpenses:    t.totalExpenses,
			NetProfit:        t.netProfit,
			TransactionCount: len(t.transactions),
			ExpenseCount:     len(t.expenses),
		}
		if level == report.DetailFull {
			row.RevenueDetails = revenueDetails(t)
		}
		result.Businesses = append(result.Businesses, row)
	}
	return result
}

func revenueDetails(t revenueTotals) *report.RevenueDetails {
	details := &report.RevenueDetails{
		Transactions: make([]report.TransactionLine, 0, len(t.transactions)),
		Expenses:     make([]report.ExpenseLine, 0, len(t.expenses)),
	}
	for _, tx := range t.transactions {
		details.Transactions = append(details.Transactions, report.TransactionLine{
			TransactionID: tx.ID,
			Amount:        report.NewAmount(tx.Amount),
			Description:   tx.Description(),
			CreatedAt:     formatTime(tx.CreatedAt),
		})
	}
	for _, e := range t.expenses {
		details.Expenses = append(details.Expenses, report.ExpenseLine{
			ExpenseID:   e.ID,
			Cost:        report.NewAmount(e.Cost),
			Description: e.Description,
			SpentAt:     formatTime(e.SpentAt),
		})
	}
	return details
}

func shapeShiftReport(level report.DetailLevel, dateRange report.DateRange, totals []shiftTotals) report.ShiftReport {
	result := report.ShiftReport{
		DetailLevel: level,
		StartDate:   dateRange.StartLabel,
		EndDate:     dateRange.EndLabel,
	}

	if level == report.DetailAggregated {
		agg := aggregateShifts(totals)
		result.Aggregate = &agg
		return result
	}

	result.Businesses = make([]report.BusinessShifts, 0, len(totals))
	for _, t := range totals {
		row := report.BusinessShifts{
			BusinessID:          t.business.ID,
			BusinessName:        t.business.Name,
			BusinessType:        t.business.Type,
			TotalHours:          t.totalHours,
			TotalLaborCost:      t.totalLaborCost,
			AssignmentCount:     len(t.shifts),
			UniqueEmployeeCount: t.uniqueEmployees,
			CompletedCount:      t.completed,
			MissedCount:         t.missed,
			UpcomingCount:       t.upcoming,
		}
		if level == report.DetailFull {
			row.ShiftDetails = shiftDetails(t)
		}
		result.Businesses = append(result.Businesses, row)
	}
	return result
}

func shiftDetails(t shiftTotals) *report.ShiftDetails {
	details := &report.ShiftDetails{
		Shifts: make([]report.ShiftLine, 0, len(t.shifts)),
	}
	for _, s := range t.shifts {
		a := s.assignment
		line := report.ShiftLine{
			AssignmentID:   a.ID,
			ShiftID:        a.Shift.ID,
			EmployeeID:     a.Employee.ID,
			EmployeeName:   a.Employee.FullName(),
			JobTitle:       a.Employee.JobTitle,
			AttractionID:   a.Shift.AttractionID,
			AttractionName: a.Shift.AttractionName,
			Start:          formatTime(a.Shift.Start),
			End:            formatTime(a.Shift.End),
			TotalHours:     report.NewAmount(a.TotalHours),
			HourlyWage:     report.NewAmount(a.Employee.HourlyWage),
			LaborCost:      report.NewAmount(s.laborCost),
			Status:         s.status,
			ClockTimes:     make([]report.ClockTime, 0, len(s.clockEvents)),
		}
		for _, e := range s.clockEvents {
			ct := report.ClockTime{
				ClockEventID: e.ID,
				Start:        formatTime(e.Start),
			}
			if e.End != nil {
				end := formatTime(*e.End)
				ct.End = &end
			}
			line.ClockTimes = append(line.ClockTimes, ct)
		}
		details.Shifts = append(details.Shifts, line)
	}
	return details
}
