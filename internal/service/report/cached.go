package report

import (
	"context"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/google/uuid"
)

// ReportCache stores generated reports as JSON.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

var cacheNamespace = uuid.MustParse("5b0e7a8e-3c2f-5d61-9f4a-2a7c0e1d9b34")

type cachedReportService struct {
	next  report.ReportService
	cache ReportCache
}

// NewCachedReportService serves repeated requests for the same scope from
// cache. Cache failures fall through to next.
func NewCachedReportService(next report.ReportService, cache ReportCache) report.ReportService {
	return &cachedReportService{next: next, cache: cache}
}

func (s *cachedReportService) GenerateRevenueReport(ctx context.Context, req report.ReportRequest) (report.RevenueReport, error) {
	filter, err := req.Filter()
	if err != nil {
		return report.RevenueReport{}, err
	}
	filter.EmployeeIDs = nil
	key := cacheKey("revenue", req.Level(), filter)

	var cached report.RevenueReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	result, err := s.next.GenerateRevenueReport(ctx, req)
	if err != nil {
		return report.RevenueReport{}, err
	}
	_ = s.cache.Set(ctx, key, result)
	return result, nil
}

func (s *cachedReportService) GenerateShiftReport(ctx context.Context, req report.ReportRequest) (report.ShiftReport, error) {
	filter, err := req.Filter()
	if err != nil {
		return report.ShiftReport{}, err
	}
	key := cacheKey("shifts", req.Level(), filter)

	var cached report.ShiftReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	result, err := s.next.GenerateShiftReport(ctx, req)
	if err != nil {
		return report.ShiftReport{}, err
	}
	// An upcoming shift changes status once it ends.
	if !hasUpcomingShifts(result) {
		_ = s.cache.Set(ctx, key, result)
	}
	return result, nil
}

func hasUpcomingShifts(r report.ShiftReport) bool {
	if r.Aggregate != nil && r.Aggregate.UpcomingCount > 0 {
		return true
	}
	for _, b := range r.Businesses {
		if b.UpcomingCount > 0 {
			return true
		}
	}
	return false
}

// cacheKey is stable for equal scopes regardless of id ordering.
func cacheKey(family string, level report.DetailLevel, filter report.Filter) string {
	id := uuid.NewSHA1(cacheNamespace, []byte(family+"|"+string(level)+"|"+filter.Canonical()))
	return "report:" + family + ":" + id.String()
}
