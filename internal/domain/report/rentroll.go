package report

import (
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RentRollEntry is a commenced lease with what the aggregator needs to derive
// counts and revenue. Escalations are attached by the caller and may be empty.
type RentRollEntry struct {
	LeaseID     int64
	UnitID      int64
	Status      lease.Status
	LeaseStart  time.Time
	LeaseEnd    time.Time
	MonthlyRent decimal.Decimal
	CreatedAt   time.Time
	Escalations []lease.EscalationEvent
}

// IDs returns the lease ids of the roll in order
func IDs(roll []RentRollEntry) []int64 {
	ids := make([]int64, len(roll))
	for i, e := range roll {
		ids[i] = e.LeaseID
	}
	return ids
}

// existedOn reports whether the row had been created by the end of asOf
func (e RentRollEntry) existedOn(asOf time.Time) bool {
	return e.CreatedAt.IsZero() || e.CreatedAt.Before(asOf.AddDate(0, 0, 1))
}

// activeOn reports whether the lease reads as active on asOf
func (e RentRollEntry) activeOn(asOf time.Time) bool {
	return e.existedOn(asOf) && lease.EffectiveStatus(e.Status, e.LeaseEnd, asOf) == lease.StatusActive
}

// CountActive counts leases that read as active on asOf
func CountActive(roll []RentRollEntry, asOf time.Time) int64 {
	var n int64
	for _, e := range roll {
		if e.activeOn(asOf) {
			n++
		}
	}
	return n
}

// CountEndingWithin counts active leases whose lease_end falls in
// [asOf, asOf+days].
func CountEndingWithin(roll []RentRollEntry, asOf time.Time, days int) int64 {
	asOf = shared.DateOnly(asOf)
	limit := asOf.AddDate(0, 0, days)
	var n int64
	for _, e := range roll {
		if !e.activeOn(asOf) {
			continue
		}
		end := shared.DateOnly(e.LeaseEnd)
		if !end.Before(asOf) && !end.After(limit) {
			n++
		}
	}
	return n
}

// MonthlyRevenue sums the escalated monthly rent of leases active on asOf
func MonthlyRevenue(roll []RentRollEntry, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range roll {
		if e.activeOn(asOf) {
			total = total.Add(lease.RentAsOf(e.MonthlyRent, e.Escalations, asOf))
		}
	}
	return total
}

// StatusBreakdown merges stored status counts with the read-time split of
// commenced leases into active and expired.
func StatusBreakdown(stored map[lease.Status]int64, roll []RentRollEntry, today time.Time) map[lease.Status]int64 {
	out := make(map[lease.Status]int64, len(lease.AllStatuses))
	for _, s := range lease.AllStatuses {
		out[s] = 0
	}
	for s, n := range stored {
		switch s {
		case lease.StatusApproved, lease.StatusActive, lease.StatusExpired:
		default:
			out[s] += n
		}
	}
	for _, e := range roll {
		out[lease.EffectiveStatus(e.Status, e.LeaseEnd, today)]++
	}
	return out
}
