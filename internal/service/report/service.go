package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
)

// ReportServiceImpl is a pure read stage: it resolves the filter, fans out the
// per-business fetches and rolls the rows up. It keeps no state between calls.
type ReportServiceImpl struct {
	fetcher    *fetcher
	correlator Correlator
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, correlator Correlator, maxParallel int) report.ReportService {
	return newReportService(reportRepo, correlator, maxParallel, time.Now)
}

func newReportService(reportRepo report.ReportRepository, correlator Correlator, maxParallel int, now func() time.Time) *ReportServiceImpl {
	if correlator == nil {
		correlator = WindowCorrelator{Window: DefaultCorrelationWindow}
	}
	return &ReportServiceImpl{
		fetcher: &fetcher{
			repo:         reportRepo,
			maxParallel:  maxParallel,
			clockPadding: correlator.Padding(),
		},
		correlator: correlator,
		now:        now,
	}
}

// GenerateRevenueReport generates the revenue report
func (s *ReportServiceImpl) GenerateRevenueReport(ctx context.Context, req report.ReportRequest) (report.RevenueReport, error) {
	filter, err := req.Filter()
	if err != nil {
		return report.RevenueReport{}, err
	}
	// Employees do not scope revenue.
	filter.EmployeeIDs = nil

	bundles, err := s.fetcher.revenue(ctx, filter)
	if err != nil {
		return report.RevenueReport{}, fmt.Errorf("%w: revenue data: %w", report.ErrReportGenerationFailed, err)
	}

	totals := make([]revenueTotals, 0, len(bundles))
	for _, b := range bundles {
		totals = append(totals, rollupRevenue(b))
	}

	return shapeRevenueReport(req.Level(), filter.DateRange, totals), nil
}

// GenerateShiftReport generates the shift report
func (s *ReportServiceImpl) GenerateShiftReport(ctx context.Context, req report.ReportRequest) (report.ShiftReport, error) {
	filter, err := req.Filter()
	if err != nil {
		return report.ShiftReport{}, err
	}

	bundles, err := s.fetcher.shifts(ctx, filter)
	if err != nil {
		return report.ShiftReport{}, fmt.Errorf("%w: shift data: %w", report.ErrReportGenerationFailed, err)
	}

	now := s.now()
	totals := make([]shiftTotals, 0, len(bundles))
	for _, b := range bundles {
		totals = append(totals, rollupShifts(b, s.correlator, now))
	}

	return shapeShiftReport(req.Level(), filter.DateRange, totals), nil
}
