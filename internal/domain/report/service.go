package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Revenue Report
	GenerateRevenueReport(ctx context.Context, req ReportRequest) (RevenueReport, error)

	// Generate Shift Report
	GenerateShiftReport(ctx context.Context, req ReportRequest) (ShiftReport, error)
}
