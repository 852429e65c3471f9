package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
)

const (
	CorrelationWindow = "window"
	CorrelationDirect = "direct"

	DefaultCorrelationWindow = 6 * time.Hour
)

// Correlator attaches observed clock events to a scheduled shift assignment.
// The result is a best-effort association, not an authoritative link.
type Correlator interface {
	Correlate(assignment report.ShiftAssignment, events []report.ClockEvent) []report.ClockEvent
	// Padding is how far outside the shift window a matching event may start.
	Padding() time.Duration
}

// NewCorrelator builds the correlator for a configured strategy name.
func NewCorrelator(strategy string, window time.Duration) (Correlator, error) {
	switch strategy {
	case "", CorrelationWindow:
		if window <= 0 {
			window = DefaultCorrelationWindow
		}
		return WindowCorrelator{Window: window}, nil
	case CorrelationDirect:
		return DirectCorrelator{Lookback: window}, nil
	default:
		return nil, fmt.Errorf("unknown clock correlation strategy %q", strategy)
	}
}

// WindowCorrelator matches every event of the assigned employee whose start
// lies within Window of the shift start, inclusive. All candidates are kept.
type WindowCorrelator struct {
	Window time.Duration
}

func (c WindowCorrelator) Correlate(assignment report.ShiftAssignment, events []report.ClockEvent) []report.ClockEvent {
	matches := make([]report.ClockEvent, 0)
	for _, e := range events {
		if e.EmployeeID != assignment.Employee.ID {
			continue
		}
		if absDuration(e.Start.Sub(assignment.Shift.Start)) <= c.Window {
			matches = append(matches, e)
		}
	}
	sortClockEvents(matches)
	return matches
}

func (c WindowCorrelator) Padding() time.Duration {
	return c.Window
}

// DirectCorrelator only trusts events that carry the shift reference. Events
// without one never match.
type DirectCorrelator struct {
	// Lookback widens the clock-event lookup; it does not affect matching.
	Lookback time.Duration
}

func (c DirectCorrelator) Correlate(assignment report.ShiftAssignment, events []report.ClockEvent) []report.ClockEvent {
	matches := make([]report.ClockEvent, 0)
	for _, e := range events {
		if e.EmployeeID != assignment.Employee.ID || e.ShiftID == nil {
			continue
		}
		if *e.ShiftID == assignment.Shift.ID {
			matches = append(matches, e)
		}
	}
	sortClockEvents(matches)
	return matches
}

func (c DirectCorrelator) Padding() time.Duration {
	return c.Lookback
}

// ClassifyShift derives the status of a shift at instant now. A shift whose
// end has not passed is upcoming whatever was recorded against it.
func ClassifyShift(shift report.Shift, matched int, now time.Time) report.ShiftStatus {
	if shift.End.After(now) {
		return report.ShiftStatusUpcoming
	}
	if matched > 0 {
		return report.ShiftStatusCompleted
	}
	return report.ShiftStatusMissed
}

func sortClockEvents(events []report.ClockEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
