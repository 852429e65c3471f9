package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Read-only projections of the rows the report engine aggregates. Rows are
// created and mutated elsewhere; the engine never writes them back.

type BusinessType string

const (
	BusinessTypeZoo    BusinessType = "zoo"
	BusinessTypeRetail BusinessType = "retail"
	BusinessTypeFood   BusinessType = "food"
	BusinessTypeVet    BusinessType = "vet"
)

var BusinessTypeValues = []string{
	string(BusinessTypeZoo),
	string(BusinessTypeRetail),
	string(BusinessTypeFood),
	string(BusinessTypeVet),
}

type Business struct {
	ID        string
	Name      string
	Type      BusinessType
	DeletedAt *time.Time
}

type Transaction struct {
	ID             string
	BusinessID     string
	Amount         decimal.Decimal
	CreatedAt      time.Time
	MembershipID   *string
	MembershipType *string
	ItemID         *string
	ItemName       *string
	Quantity       *int
	DeletedAt      *time.Time
}

// Description derives a human-readable label from the purchased item or
// membership the transaction is attached to.
func (t Transaction) Description() string {
	switch {
	case t.ItemName != nil && *t.ItemName != "":
		if t.Quantity != nil && *t.Quantity > 1 {
			return fmt.Sprintf("%s x%d", *t.ItemName, *t.Quantity)
		}
		return *t.ItemName
	case t.MembershipType != nil && *t.MembershipType != "":
		return *t.MembershipType + " membership"
	default:
		return "General admission"
	}
}

type Expense struct {
	ID          string
	BusinessID  string
	Cost        decimal.Decimal
	Description string
	SpentAt     time.Time
	DeletedAt   *time.Time
}

type Employee struct {
	ID         string
	BusinessID string
	FirstName  string
	LastName   string
	JobTitle   string
	HourlyWage decimal.Decimal
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Shift struct {
	ID             string
	Start          time.Time
	End            time.Time
	AttractionID   *string
	AttractionName *string
	DeletedAt      *time.Time
}

// ShiftAssignment links one employee to one shift. TotalHours is entered
// independently of the shift window and is used as-is for labor cost.
type ShiftAssignment struct {
	ID         string
	Shift      Shift
	Employee   Employee
	TotalHours decimal.Decimal
}

// ClockEvent is an observed clock-in/out pair. ShiftID is only set when the
// recording path captured the shift it was made against.
type ClockEvent struct {
	ID         string
	EmployeeID string
	ShiftID    *string
	Start      time.Time
	End        *time.Time
}

type ShiftStatus string

const (
	ShiftStatusUpcoming  ShiftStatus = "upcoming"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusMissed    ShiftStatus = "missed"
)
