package report

import (
	"math"
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Direction tells which way a figure moved between two periods
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// HighUrgencyThreshold is the number of days below which a renewal or expiry
// is flagged as high urgency.
const HighUrgencyThreshold = 30

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// PercentageChange formats the change from previous to current as a signed
// whole percentage. A zero previous value yields "+100%" when current is
// positive and "0%" otherwise. Exact halves round toward positive infinity,
// so -2.5% reads "-2%" and +2.5% reads "+3%", matching the dashboard client.
func PercentageChange(current, previous decimal.Decimal) string {
	if previous.IsZero() {
		if current.IsPositive() {
			return "+100%"
		}
		return "0%"
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred).Add(half).Floor()
	switch pct.Sign() {
	case 1:
		return "+" + pct.String() + "%"
	case -1:
		return pct.String() + "%"
	}
	return "0%"
}

// ChangeDirection compares current against previous
func ChangeDirection(current, previous decimal.Decimal) Direction {
	switch current.Cmp(previous) {
	case 1:
		return DirectionPositive
	case -1:
		return DirectionNegative
	}
	return DirectionNeutral
}

// DaysRemaining is the number of calendar days from today until date,
// rounded up. Past dates give negative values.
func DaysRemaining(date, today time.Time) int {
	d := shared.DateOnly(date).Sub(shared.DateOnly(today))
	return int(math.Ceil(d.Hours() / 24))
}

// Urgency is the badge pair shown next to a renewal or expiry
type Urgency struct {
	High        bool   `json:"high"`
	RiskBadge   string `json:"risk"`
	StatusBadge string `json:"status"`
}

// ClassifyUrgency flags days strictly below threshold as high urgency
func ClassifyUrgency(days, threshold int) Urgency {
	if days < threshold {
		return Urgency{High: true, RiskBadge: "HIGH RISK", StatusBadge: "warning"}
	}
	return Urgency{High: false, RiskBadge: "MEDIUM", StatusBadge: "success"}
}

// Figure is a metric value with its previous-period counterpart
type Figure struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
}

// CountFigure builds a Figure from two counts
func CountFigure(current, previous int64) Figure {
	return Figure{Current: decimal.NewFromInt(current), Previous: decimal.NewFromInt(previous)}
}

// Change is PercentageChange applied to the figure
func (f Figure) Change() string {
	return PercentageChange(f.Current, f.Previous)
}

// Direction is ChangeDirection applied to the figure
func (f Figure) Direction() Direction {
	return ChangeDirection(f.Current, f.Previous)
}
