package report

import (
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TrendKindProjected labels a series computed from contracted rent rather
// than from collected payments.
const TrendKindProjected = "projected"

// TrendPoint is one month of the revenue series
type TrendPoint struct {
	Month            string          `json:"month"`
	ProjectedRevenue decimal.Decimal `json:"projectedRevenue"`
	Kind             string          `json:"kind"`
}

// ProjectRevenue produces one point per month for the months after today's.
// Each point sums the rent of leases active today that still run on the first
// day of that month, with escalations effective by then applied.
func ProjectRevenue(roll []RentRollEntry, today time.Time, months int) []TrendPoint {
	today = shared.DateOnly(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	active := make([]RentRollEntry, 0, len(roll))
	for _, e := range roll {
		if e.activeOn(today) {
			active = append(active, e)
		}
	}

	points := make([]TrendPoint, 0, months)
	for i := 1; i <= months; i++ {
		first := monthStart.AddDate(0, i, 0)
		total := decimal.Zero
		for _, e := range active {
			if shared.DateOnly(e.LeaseEnd).Before(first) {
				continue
			}
			total = total.Add(lease.RentAsOf(e.MonthlyRent, e.Escalations, first))
		}
		points = append(points, TrendPoint{
			Month:            first.Format("2006-01"),
			ProjectedRevenue: total.Round(2),
			Kind:             TrendKindProjected,
		})
	}
	return points
}
