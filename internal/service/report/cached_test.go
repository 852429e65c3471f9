package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func TestCachedReportService_RevenueServedFromCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	repo.addBusiness("b1", "Main Gate Zoo", report.BusinessTypeZoo)
	repo.addTransaction("b1", "t1", "24.95", day(3, 10))
	repo.addTransaction("b1", "t2", "24.95", day(4, 10))

	cache := newMemoryCache()
	svc := NewCachedReportService(newTestService(repo), cache)

	req := report.ReportRequest{BusinessIDs: []string{"b1"}, Detail: report.DetailSummary}
	first, err := svc.GenerateRevenueReport(ctx, req)
	require.NoError(t, err)
	callsAfterFirst := repo.calls
	require.Len(t, cache.entries, 1)

	second, err := svc.GenerateRevenueReport(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, repo.calls)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, "49.90", second.Businesses[0].TotalRevenue.String())
}

func TestCachedReportService_ShiftLevelsCachedSeparately(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	repo.addBusiness("b1", "Main Gate Zoo", report.BusinessTypeZoo)

	cache := newMemoryCache()
	svc := NewCachedReportService(newTestService(repo), cache)

	_, err := svc.GenerateShiftReport(ctx, report.ReportRequest{Detail: report.DetailSummary})
	require.NoError(t, err)
	_, err = svc.GenerateShiftReport(ctx, report.ReportRequest{Detail: report.DetailAggregated})
	require.NoError(t, err)

	assert.Len(t, cache.entries, 2)
	for key := range cache.entries {
		assert.True(t, strings.HasPrefix(key, "report:shifts:"), key)
	}
}

func TestCachedReportService_UpcomingShiftsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	repo.addBusiness("b1", "Main Gate Zoo", report.BusinessTypeZoo)
	keeper := report.Employee{ID: "e1", BusinessID: "b1", FirstName: "Ada", LastName: "Keeper", JobTitle: "Zookeeper", HourlyWage: dec("15.00")}
	repo.assignments["b1"] = []report.ShiftAssignment{
		assignment("a1", "s1", day(20, 9), day(20, 17), keeper, "8"),
	}

	cache := newMemoryCache()
	svc := NewCachedReportService(newTestService(repo), cache)

	for _, level := range []report.DetailLevel{report.DetailSummary, report.DetailAggregated} {
		result, err := svc.GenerateShiftReport(ctx, report.ReportRequest{Detail: level})
		require.NoError(t, err)
		assert.Equal(t, 1, upcomingCount(result), level)
	}
	assert.Empty(t, cache.entries)

	// once every shift has ended the report is stable enough to cache
	repo.assignments["b1"] = []report.ShiftAssignment{
		assignment("a1", "s1", day(10, 9), day(10, 17), keeper, "8"),
	}
	_, err := svc.GenerateShiftReport(ctx, report.ReportRequest{Detail: report.DetailSummary})
	require.NoError(t, err)
	assert.Len(t, cache.entries, 1)
}

func upcomingCount(r report.ShiftReport) int {
	if r.Aggregate != nil {
		return r.Aggregate.UpcomingCount
	}
	n := 0
	for _, b := range r.Businesses {
		n += b.UpcomingCount
	}
	return n
}

func TestCachedReportService_EchoesRequestedDateSpelling(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	repo.addBusiness("b1", "Main Gate Zoo", report.BusinessTypeZoo)
	repo.addTransaction("b1", "t1", "5.00", day(3, 10))

	cache := newMemoryCache()
	svc := NewCachedReportService(newTestService(repo), cache)

	first, err := svc.GenerateRevenueReport(ctx, report.ReportRequest{StartDate: "2024-06-01", Detail: report.DetailSummary})
	require.NoError(t, err)
	second, err := svc.GenerateRevenueReport(ctx, report.ReportRequest{StartDate: "2024-06-01T00:00:00Z", Detail: report.DetailSummary})
	require.NoError(t, err)

	require.NotNil(t, first.StartDate)
	require.NotNil(t, second.StartDate)
	assert.Equal(t, "2024-06-01", *first.StartDate)
	assert.Equal(t, "2024-06-01T00:00:00Z", *second.StartDate)
	assert.Len(t, cache.entries, 2)
}

func TestCachedReportService_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	repo.addBusiness("b1", "Main Gate Zoo", report.BusinessTypeZoo)
	repo.addTransaction("b1", "t1", "5.00", day(3, 10))

	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := NewCachedReportService(newTestService(repo), cache)

	result, err := svc.GenerateRevenueReport(ctx, report.ReportRequest{Detail: report.DetailSummary})
	require.NoError(t, err)
	assert.Equal(t, "5.00", result.Businesses[0].TotalRevenue.String())
}

func TestCachedReportService_ValidationErrorSkipsCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeReportRepository()
	cache := newMemoryCache()
	svc := NewCachedReportService(newTestService(repo), cache)

	_, err := svc.GenerateShiftReport(ctx, report.ReportRequest{Detail: "everything"})
	require.Error(t, err)
	assert.Empty(t, cache.entries)
	assert.Equal(t, 0, repo.calls)
}

func TestCacheKey(t *testing.T) {
	a, err := (&report.ReportRequest{BusinessIDs: []string{"b2", "b1"}, StartDate: "2024-06-01"}).Filter()
	require.NoError(t, err)
	b, err := (&report.ReportRequest{BusinessIDs: []string{"b1", "b2", "b1"}, StartDate: "2024-06-01"}).Filter()
	require.NoError(t, err)
	c, err := (&report.ReportRequest{BusinessIDs: []string{"b1"}, StartDate: "2024-06-01"}).Filter()
	require.NoError(t, err)

	assert.Equal(t, cacheKey("revenue", report.DetailFull, a), cacheKey("revenue", report.DetailFull, b))
	assert.NotEqual(t, cacheKey("revenue", report.DetailFull, a), cacheKey("revenue", report.DetailFull, c))
	assert.NotEqual(t, cacheKey("revenue", report.DetailFull, a), cacheKey("revenue", report.DetailSummary, a))
	assert.NotEqual(t, cacheKey("revenue", report.DetailFull, a), cacheKey("shifts", report.DetailFull, a))
}
