package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetSummary      = "Summary"
	SheetTransactions = "Transactions"
	SheetExpenses     = "Expenses"
	SheetShifts       = "Shifts"

	// builtin number format "0.00"
	numFmtTwoDecimals = 2
)

// workbook wraps an excelize file with row cursors per sheet.
type workbook struct {
	f         *excelize.File
	amountFmt int
	nextRow   map[string]int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &workbook{
		f:         f,
		amountFmt: style,
		nextRow:   map[string]int{SheetSummary: 1},
	}, nil
}

func (w *workbook) sheet(name string) error {
	if _, ok := w.nextRow[name]; ok {
		return nil
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return err
	}
	w.nextRow[name] = 1
	return nil
}

// row appends values to the sheet. Amount cells get the two-decimal format.
func (w *workbook) row(sheet string, values ...interface{}) error {
	rowNo := w.nextRow[sheet]
	cells := make([]interface{}, len(values))
	for i, v := range values {
		if a, ok := v.(report.Amount); ok {
			cells[i] = a.Float64()
			continue
		}
		cells[i] = v
	}

	start, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, start, &cells); err != nil {
		return err
	}

	for i, v := range values {
		if _, ok := v.(report.Amount); !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.amountFmt); err != nil {
			return err
		}
	}

	w.nextRow[sheet] = rowNo + 1
	return nil
}

func (w *workbook) writeTo(out io.Writer) error {
	defer w.f.Close()
	w.f.SetActiveSheet(0)
	if _, err := w.f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteRevenueReport renders the report as a workbook: a Summary sheet and,
// for full detail, Transactions and Expenses sheets.
func WriteRevenueReport(out io.Writer, r report.RevenueReport) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}

	if err := writeRevenue(w, r); err != nil {
		w.f.Close()
		return err
	}
	return w.writeTo(out)
}

func writeRevenue(w *workbook, r report.RevenueReport) error {
	if err := w.row(SheetSummary, "Detail Level", string(r.DetailLevel), "Start Date", deref(r.StartDate), "End Date", deref(r.EndDate)); err != nil {
		return err
	}

	if r.DetailLevel == report.DetailAggregated && r.Aggregate != nil {
		agg := r.Aggregate
		rows := [][]interface{}{
			{"Business Count", "Total Revenue", "Total Expenses", "Net Profit", "Transaction Count", "Expense Count"},
			{agg.BusinessCount, agg.TotalRevenue, agg.TotalExpenses, agg.NetProfit, agg.TransactionCount, agg.ExpenseCount},
			{"Business ID", "Business Name", "Business Type", "Net Profit"},
		}
		for _, b := range agg.Businesses {
			rows = append(rows, []interface{}{b.BusinessID, b.BusinessName, string(b.BusinessType), b.NetProfit})
		}
		for _, values := range rows {
			if err := w.row(SheetSummary, values...); err != nil {
				return err
			}
		}
		return nil
	}

	if err := w.row(SheetSummary, "Business ID", "Business Name", "Business Type", "Total Revenue", "Total Expenses", "Net Profit", "Transaction Count", "Expense Count"); err != nil {
		return err
	}
	for _, b := range r.Businesses {
		if err := w.row(SheetSummary, b.BusinessID, b.BusinessName, string(b.BusinessType), b.TotalRevenue, b.TotalExpenses, b.NetProfit, b.TransactionCount, b.ExpenseCount); err != nil {
			return err
		}
	}

	if r.DetailLevel != report.DetailFull {
		return nil
	}

	if err := w.sheet(SheetTransactions); err != nil {
		return err
	}
	if err := w.sheet(SheetExpenses); err != nil {
		return err
	}
	if err := w.row(SheetTransactions, "Business Name", "Transaction ID", "Created At", "Description", "Amount"); err != nil {
		return err
	}
	if err := w.row(SheetExpenses, "Business Name", "Expense ID", "Spent At", "Description", "Cost"); err != nil {
		return err
	}

	for _, b := range r.Businesses {
		if b.RevenueDetails == nil {
			continue
		}
		for _, t := range b.Transactions {
			if err := w.row(SheetTransactions, b.BusinessName, t.TransactionID, t.CreatedAt, t.Description, t.Amount); err != nil {
				return err
			}
		}
		for _, e := range b.Expenses {
			if err := w.row(SheetExpenses, b.BusinessName, e.ExpenseID, e.SpentAt, e.Description, e.Cost); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteShiftReport renders the report as a workbook: a Summary sheet and,
// for full detail, a Shifts sheet with one row per assignment.
func WriteShiftReport(out io.Writer, r report.ShiftReport) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}

	if err := writeShifts(w, r); err != nil {
		w.f.Close()
		return err
	}
	return w.writeTo(out)
}

func writeShifts(w *workbook, r report.ShiftReport) error {
	if err := w.row(SheetSummary, "Detail Level", string(r.DetailLevel), "Start Date", deref(r.StartDate), "End Date", deref(r.EndDate)); err != nil {
		return err
	}

	if r.DetailLevel == report.DetailAggregated && r.Aggregate != nil {
		agg := r.Aggregate
		rows := [][]interface{}{
			{"Business Count", "Total Hours", "Total Labor Cost", "Assignment Count", "Unique Employee Count", "Completed", "Missed", "Upcoming"},
			{agg.BusinessCount, agg.TotalHours, agg.TotalLaborCost, agg.AssignmentCount, agg.UniqueEmployeeCount, agg.CompletedCount, agg.MissedCount, agg.UpcomingCount},
			{"Business ID", "Business Name", "Business Type", "Total Labor Cost"},
		}
		for _, b := range agg.Businesses {
			rows = append(rows, []interface{}{b.BusinessID, b.BusinessName, string(b.BusinessType), b.TotalLaborCost})
		}
		for _, values := range rows {
			if err := w.row(SheetSummary, values...); err != nil {
				return err
			}
		}
		return nil
	}

	if err := w.row(SheetSummary, "Business ID", "Business Name", "Business Type", "Total Hours", "Total Labor Cost", "Assignment Count", "Unique Employee Count", "Completed", "Missed", "Upcoming"); err != nil {
		return err
	}
	for _, b := range r.Businesses {
		if err := w.row(SheetSummary, b.BusinessID, b.BusinessName, string(b.BusinessType), b.TotalHours, b.TotalLaborCost, b.AssignmentCount, b.UniqueEmployeeCount, b.CompletedCount, b.MissedCount, b.UpcomingCount); err != nil {
			return err
		}
	}

	if r.DetailLevel != report.DetailFull {
		return nil
	}

	if err := w.sheet(SheetShifts); err != nil {
		return err
	}
	if err := w.row(SheetShifts, "Business Name", "Assignment ID", "Employee", "Job Title", "Attraction", "Start", "End", "Hours", "Hourly Wage", "Labor Cost", "Status", "Clock Events"); err != nil {
		return err
	}
	for _, b := range r.Businesses {
		if b.ShiftDetails == nil {
			continue
		}
		for _, s := range b.Shifts {
			if err := w.row(SheetShifts, b.BusinessName, s.AssignmentID, s.EmployeeName, s.JobTitle, deref(s.AttractionName), s.Start, s.End, s.TotalHours, s.HourlyWage, s.LaborCost, string(s.Status), len(s.ClockTimes)); err != nil {
				return err
			}
		}
	}
	return nil
}
