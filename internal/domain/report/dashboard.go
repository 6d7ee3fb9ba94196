package report

import (
	"context"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/shopspring/decimal"
)

// ExpiringLease is a commenced lease approaching its end date
type ExpiringLease struct {
	LeaseID     int64
	ProjectName string
	UnitNumber  string
	TenantName  string
	LeaseEnd    time.Time
	MonthlyRent decimal.Decimal
}

// DueEscalation is a scheduled increase on an active lease
type DueEscalation struct {
	EscalationID  int64
	LeaseID       int64
	SequenceNo    int
	ProjectName   string
	UnitNumber    string
	TenantName    string
	EffectiveFrom time.Time
	IncreaseType  lease.IncreaseType
	Value         decimal.Decimal
	MonthlyRent   decimal.Decimal
}

// Occupancy counts units by occupancy flag
type Occupancy struct {
	Total       int64
	Occupied    int64
	Vacant      int64
	Maintenance int64
}

// Rate is the occupied share of all units as a percentage with two decimals
func (o Occupancy) Rate() decimal.Decimal {
	if o.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(o.Occupied).Mul(hundred).Div(decimal.NewFromInt(o.Total)).Round(2)
}

// DashboardRepository reads the raw data the aggregator derives figures from.
// Date windows are inclusive on both ends.
type DashboardRepository interface {
	// CountLeases counts all lease rows, or only those created before the
	// given instant when it is non-nil.
	CountLeases(ctx context.Context, createdBefore *time.Time) (int64, error)

	// CountByStatus counts lease rows per stored status
	CountByStatus(ctx context.Context) (map[lease.Status]int64, error)

	// RentRoll returns leases in commenced statuses without escalations
	RentRoll(ctx context.Context) ([]RentRollEntry, error)

	// LeasesEndingBetween returns commenced leases with lease_end in the
	// window, soonest first.
	LeasesEndingBetween(ctx context.Context, from, to time.Time) ([]ExpiringLease, error)

	// EscalationsEffectiveBetween returns escalations with effective_from in
	// the window whose lease is commenced and ends on or after from.
	EscalationsEffectiveBetween(ctx context.Context, from, to time.Time) ([]DueEscalation, error)

	// UnitOccupancy counts units by status
	UnitOccupancy(ctx context.Context) (Occupancy, error)
}

// PriceEscalation returns the rent in force just before the escalation and
// the rent after it, given the lease's full schedule.
func PriceEscalation(due DueEscalation, schedule []lease.EscalationEvent) (before, after decimal.Decimal) {
	before = due.MonthlyRent
	for _, e := range schedule {
		if e.SequenceNo >= due.SequenceNo {
			break
		}
		before = e.Apply(before)
	}
	after = lease.EscalationEvent{IncreaseType: due.IncreaseType, Value: due.Value}.Apply(before)
	return before.Round(2), after.Round(2)
}
