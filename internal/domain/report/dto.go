package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/validator"
)

type DetailLevel string

const (
	DetailFull       DetailLevel = "full"
	DetailSummary    DetailLevel = "summary"
	DetailAggregated DetailLevel = "aggregated"
)

var DetailLevelValues = []string{
	string(DetailFull),
	string(DetailSummary),
	string(DetailAggregated),
}

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

// ========================================
// REQUEST
// ========================================

// ReportRequest carries the caller's report scope. Every field is optional.
// EmployeeIDs is only honored by the shift report.
type ReportRequest struct {
	BusinessIDs  []string     `json:"businessIds"`
	BusinessType string       `json:"businessType"`
	StartDate    string       `json:"startDate"`
	EndDate      string       `json:"endDate"`
	EmployeeIDs  []string     `json:"employeeIds"`
	Detail       DetailLevel  `json:"detail"`
	Format       ExportFormat `json:"format"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BusinessType != "" && !validator.IsInSlice(r.BusinessType, BusinessTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "business_type",
			Message: fmt.Sprintf("business_type must be one of %s", strings.Join(BusinessTypeValues, ", ")),
			Err:     ErrInvalidBusinessType,
		})
	}

	if r.Detail != "" && !validator.IsInSlice(string(r.Detail), DetailLevelValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "detail",
			Message: ErrInvalidDetailLevel.Error(),
			Err:     ErrInvalidDetailLevel,
		})
	}

	if r.Format != "" && r.Format != FormatJSON && r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: ErrInvalidFormat.Error(),
			Err:     ErrInvalidFormat,
		})
	}

	start, startErr := parseBound(r.StartDate)
	if startErr {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD or an ISO8601 timestamp",
		})
	}

	end, endErr := parseBound(r.EndDate)
	if endErr {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD or an ISO8601 timestamp",
		})
	}

	if start != nil && end != nil && start.Time.After(end.UpperBound()) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
			Err:     ErrInvalidDateRange,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter validates the request and resolves it into the canonical filter.
func (r *ReportRequest) Filter() (Filter, error) {
	if err := r.Validate(); err != nil {
		return Filter{}, err
	}
	start, _ := parseBound(r.StartDate)
	end, _ := parseBound(r.EndDate)
	return ResolveFilter(r.BusinessIDs, r.BusinessType, start, end, r.EmployeeIDs), nil
}

// Level returns the requested detail level, defaulting to full.
func (r *ReportRequest) Level() DetailLevel {
	if r.Detail == "" {
		return DetailFull
	}
	return r.Detail
}

func (r *ReportRequest) OutputFormat() ExportFormat {
	if r.Format == "" {
		return FormatJSON
	}
	return r.Format
}

// parseBound returns a nil bound for an empty string and reports whether a
// non-empty value failed to parse.
func parseBound(value string) (*Bound, bool) {
	if validator.IsEmpty(value) {
		return nil, false
	}
	t, dateOnly, ok := validator.ParseDateOrDateTime(value)
	if !ok {
		return nil, true
	}
	return &Bound{Time: t, DateOnly: dateOnly}, false
}

// ========================================
// REVENUE REPORT
// ========================================

type RevenueReport struct {
	DetailLevel DetailLevel       `json:"detailLevel"`
	StartDate   *string           `json:"startDate"`
	EndDate     *string           `json:"endDate"`
	Businesses  []BusinessRevenue `json:"businesses"`
	Aggregate   *RevenueAggregate `json:"aggregate"`
}

// MarshalJSON emits either the per-business list or the aggregate, never both.
func (r RevenueReport) MarshalJSON() ([]byte, error) {
	if r.DetailLevel == DetailAggregated {
		aggregate := r.Aggregate
		if aggregate == nil {
			aggregate = &RevenueAggregate{Businesses: []RevenueDigest{}}
		}
		return json.Marshal(struct {
			DetailLevel DetailLevel       `json:"detailLevel"`
			StartDate   *string           `json:"startDate"`
			EndDate     *string           `json:"endDate"`
			Aggregate   *RevenueAggregate `json:"aggregate"`
		}{r.DetailLevel, r.StartDate, r.EndDate, aggregate})
	}

	businesses := r.Businesses
	if businesses == nil {
		businesses = []BusinessRevenue{}
	}
	return json.Marshal(struct {
		DetailLevel DetailLevel       `json:"detailLevel"`
		StartDate   *string           `json:"startDate"`
		EndDate     *string           `json:"endDate"`
		Businesses  []BusinessRevenue `json:"businesses"`
	}{r.DetailLevel, r.StartDate, r.EndDate, businesses})
}

type BusinessRevenue struct {
	BusinessID       string       `json:"businessId"`
	BusinessName     string       `json:"businessName"`
	BusinessType     BusinessType `json:"businessType"`
	TotalRevenue     Amount       `json:"totalRevenue"`
	TotalExpenses    Amount       `json:"totalExpenses"`
	NetProfit        Amount       `json:"netProfit"`
	TransactionCount int          `json:"transactionCount"`
	ExpenseCount     int          `json:"expenseCount"`

	// Nil at summary level, which drops the detail keys from the output.
	*RevenueDetails
}

type RevenueDetails struct {
	Transactions []TransactionLine `json:"transactions"`
	Expenses     []ExpenseLine     `json:"expenses"`
}

type TransactionLine struct {
	TransactionID string `json:"transactionId"`
	Amount        Amount `json:"amount"`
	Description   string `json:"description"`
	CreatedAt     string `json:"createdAt"`
}

type ExpenseLine struct {
	ExpenseID   string `json:"expenseId"`
	Cost        Amount `json:"cost"`
	Description string `json:"description"`
	SpentAt     string `json:"spentAt"`
}

type RevenueAggregate struct {
	BusinessCount    int             `json:"businessCount"`
	TotalRevenue     Amount          `json:"totalRevenue"`
	TotalExpenses    Amount          `json:"totalExpenses"`
	NetProfit        Amount          `json:"netProfit"`
	TransactionCount int             `json:"transactionCount"`
	ExpenseCount     int             `json:"expenseCount"`
	Businesses       []RevenueDigest `json:"businesses"`
}

type RevenueDigest struct {
	BusinessID   string       `json:"businessId"`
	BusinessName string       `json:"businessName"`
	BusinessType BusinessType `json:"businessType"`
	NetProfit    Amount       `json:"netProfit"`
}

// ========================================
// SHIFT REPORT
// ========================================

type ShiftReport struct {
	DetailLevel DetailLevel      `json:"detailLevel"`
	StartDate   *string          `json:"startDate"`
	EndDate     *string          `json:"endDate"`
	Businesses  []BusinessShifts `json:"businesses"`
	Aggregate   *ShiftAggregate  `json:"aggregate"`
}

func (r ShiftReport) MarshalJSON() ([]byte, error) {
	if r.DetailLevel == DetailAggregated {
		aggregate := r.Aggregate
		if aggregate == nil {
			aggregate = &ShiftAggregate{Businesses: []ShiftDigest{}}
		}
		return json.Marshal(struct {
			DetailLevel DetailLevel     `json:"detailLevel"`
			StartDate   *string         `json:"startDate"`
			EndDate     *string         `json:"endDate"`
			Aggregate   *ShiftAggregate `json:"aggregate"`
		}{r.DetailLevel, r.StartDate, r.EndDate, aggregate})
	}

	businesses := r.Businesses
	if businesses == nil {
		businesses = []BusinessShifts{}
	}
	return json.Marshal(struct {
		DetailLevel DetailLevel      `json:"detailLevel"`
		StartDate   *string          `json:"startDate"`
		EndDate     *string          `json:"endDate"`
		Businesses  []BusinessShifts `json:"businesses"`
	}{r.DetailLevel, r.StartDate, r.EndDate, businesses})
}

type BusinessShifts struct {
	BusinessID          string       `json:"businessId"`
	BusinessName        string       `json:"businessName"`
	BusinessType        BusinessType `json:"businessType"`
	TotalHours          Amount       `json:"totalHours"`
	TotalLaborCost      Amount       `json:"totalLaborCost"`
	AssignmentCount     int          `json:"assignmentCount"`
	UniqueEmployeeCount int          `json:"uniqueEmployeeCount"`
	CompletedCount      int          `json:"completedCount"`
	MissedCount         int          `json:"missedCount"`
	UpcomingCount       int          `json:"upcomingCount"`

	*ShiftDetails
}

type ShiftDetails struct {
	Shifts []ShiftLine `json:"shifts"`
}

type ShiftLine struct {
	AssignmentID   string      `json:"assignmentId"`
	ShiftID        string      `json:"shiftId"`
	EmployeeID     string      `json:"employeeId"`
	EmployeeName   string      `json:"employeeName"`
	JobTitle       string      `json:"jobTitle"`
	AttractionID   *string     `json:"attractionId"`
	AttractionName *string     `json:"attractionName"`
	Start          string      `json:"start"`
	End            string      `json:"end"`
	TotalHours     Amount      `json:"totalHours"`
	HourlyWage     Amount      `json:"hourlyWage"`
	LaborCost      Amount      `json:"laborCost"`
	Status         ShiftStatus `json:"status"`
	ClockTimes     []ClockTime `json:"clockTimes"`
}

type ClockTime struct {
	ClockEventID string  `json:"clockEventId"`
	Start        string  `json:"start"`
	End          *string `json:"end"`
}

type ShiftAggregate struct {
	BusinessCount       int           `json:"businessCount"`
	TotalHours          Amount        `json:"totalHours"`
	TotalLaborCost      Amount        `json:"totalLaborCost"`
	AssignmentCount     int           `json:"assignmentCount"`
	UniqueEmployeeCount int           `json:"uniqueEmployeeCount"`
	CompletedCount      int           `json:"completedCount"`
	MissedCount         int           `json:"missedCount"`
	UpcomingCount       int           `json:"upcomingCount"`
	Businesses          []ShiftDigest `json:"businesses"`
}

type ShiftDigest struct {
	BusinessID     string       `json:"businessId"`
	BusinessName   string       `json:"businessName"`
	BusinessType   BusinessType `json:"businessType"`
	TotalLaborCost Amount       `json:"totalLaborCost"`
}
