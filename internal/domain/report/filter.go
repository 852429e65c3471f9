package report

import (
	"sort"
	"strings"
	"time"
)

// DateRange is an inclusive range on a record timestamp. A nil bound is
// unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time

	// Labels echo the bounds back in report output.
	StartLabel *string
	EndLabel   *string
}

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Filter is the canonical report-scoping descriptor. Empty BusinessIDs means
// every business, nil BusinessType means every category. EmployeeIDs only
// narrows the shift report.
type Filter struct {
	BusinessIDs  []string
	BusinessType *BusinessType
	DateRange    DateRange
	EmployeeIDs  []string
}

func (f Filter) MatchesBusiness(b Business) bool {
	if b.DeletedAt != nil {
		return false
	}
	if f.BusinessType != nil && b.Type != *f.BusinessType {
		return false
	}
	if len(f.BusinessIDs) == 0 {
		return true
	}
	for _, id := range f.BusinessIDs {
		if id == b.ID {
			return true
		}
	}
	return false
}

func (f Filter) MatchesEmployee(employeeID string) bool {
	if len(f.EmployeeIDs) == 0 {
		return true
	}
	for _, id := range f.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Canonical renders the filter in an order-independent form so that equal
// filters produce equal strings.
func (f Filter) Canonical() string {
	var b strings.Builder
	b.WriteString("businesses=")
	b.WriteString(strings.Join(sortedCopy(f.BusinessIDs), ","))
	b.WriteString("|type=")
	if f.BusinessType != nil {
		b.WriteString(string(*f.BusinessType))
	}
	b.WriteString("|start=")
	if f.DateRange.Start != nil {
		b.WriteString(f.DateRange.Start.UTC().Format(time.RFC3339Nano))
	}
	b.WriteString("|end=")
	if f.DateRange.End != nil {
		b.WriteString(f.DateRange.End.UTC().Format(time.RFC3339Nano))
	}
	// Labels are echoed in the output, so equal instants spelled differently
	// must not share a key.
	b.WriteString("|labels=")
	if f.DateRange.StartLabel != nil {
		b.WriteString(*f.DateRange.StartLabel)
	}
	b.WriteString(",")
	if f.DateRange.EndLabel != nil {
		b.WriteString(*f.DateRange.EndLabel)
	}
	b.WriteString("|employees=")
	b.WriteString(strings.Join(sortedCopy(f.EmployeeIDs), ","))
	return b.String()
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

// ResolveFilter builds the canonical filter from already-parsed inputs.
// Start bounds are passed through untouched; see Bound.UpperBound for the end.
func ResolveFilter(businessIDs []string, businessType string, start, end *Bound, employeeIDs []string) Filter {
	f := Filter{
		BusinessIDs: dedupe(businessIDs),
		EmployeeIDs: dedupe(employeeIDs),
	}

	if businessType != "" {
		bt := BusinessType(businessType)
		f.BusinessType = &bt
	}

	if start != nil {
		t := start.Time.UTC()
		label := start.Label()
		f.DateRange.Start = &t
		f.DateRange.StartLabel = &label
	}
	if end != nil {
		t := end.UpperBound()
		label := end.Label()
		f.DateRange.End = &t
		f.DateRange.EndLabel = &label
	}

	return f
}

// Bound is a parsed date or datetime supplied by the caller.
type Bound struct {
	Time     time.Time
	DateOnly bool
}

// UpperBound is the last instant covered when b closes a range. A date-only
// bound covers the whole day.
func (b Bound) UpperBound() time.Time {
	t := b.Time.UTC()
	if b.DateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return t
}

func (b Bound) Label() string {
	if b.DateOnly {
		return b.Time.Format("2006-01-02")
	}
	return b.Time.UTC().Format(time.RFC3339Nano)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
