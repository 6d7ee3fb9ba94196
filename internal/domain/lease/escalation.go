package lease

import (
	"strconv"
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IncreaseType is how an escalation changes the rent
type IncreaseType string

const (
	IncreasePercentage  IncreaseType = "Percentage"
	IncreaseFixedAmount IncreaseType = "FixedAmount"
)

// IsValid checks if the increase type is known
func (t IncreaseType) IsValid() bool {
	return t == IncreasePercentage || t == IncreaseFixedAmount
}

var hundred = decimal.NewFromInt(100)

// EscalationEvent is a scheduled rent increase owned by exactly one lease
type EscalationEvent struct {
	ID            int64
	LeaseID       int64
	SequenceNo    int
	EffectiveFrom time.Time
	IncreaseType  IncreaseType
	Value         decimal.Decimal
	CreatedAt     time.Time
}

// Apply returns the rent after this escalation
func (e EscalationEvent) Apply(rent decimal.Decimal) decimal.Decimal {
	if e.IncreaseType == IncreaseFixedAmount {
		return rent.Add(e.Value)
	}
	return rent.Mul(hundred.Add(e.Value)).Div(hundred)
}

// EscalationInput is a caller-supplied escalation entry; its position in the
// input list decides its sequence number.
type EscalationInput struct {
	EffectiveFrom time.Time
	IncreaseType  IncreaseType
	Value         decimal.Decimal
}

// BuildSchedule turns inputs into events numbered 1..N in input order,
// defaulting the increase type to Percentage.
func BuildSchedule(leaseID int64, inputs []EscalationInput) ([]EscalationEvent, error) {
	events := make([]EscalationEvent, 0, len(inputs))
	for i, in := range inputs {
		if in.EffectiveFrom.IsZero() {
			return nil, shared.NewValidationError(escalationField(i, "effective_from"), "is required")
		}
		increase := in.IncreaseType
		if increase == "" {
			increase = IncreasePercentage
		}
		if !increase.IsValid() {
			return nil, shared.NewValidationError(escalationField(i, "increase_type"), "must be Percentage or FixedAmount")
		}
		if in.Value.IsNegative() {
			return nil, shared.NewValidationError(escalationField(i, "value"), "cannot be negative")
		}
		events = append(events, EscalationEvent{
			LeaseID:       leaseID,
			SequenceNo:    i + 1,
			EffectiveFrom: shared.DateOnly(in.EffectiveFrom),
			IncreaseType:  increase,
			Value:         in.Value,
		})
	}
	return events, nil
}

// Resequence assigns sequence numbers 1..N in slice order and binds every
// event to leaseID.
func Resequence(leaseID int64, events []EscalationEvent) []EscalationEvent {
	out := make([]EscalationEvent, len(events))
	for i, e := range events {
		e.ID = 0
		e.LeaseID = leaseID
		e.SequenceNo = i + 1
		out[i] = e
	}
	return out
}

// IsContiguous reports whether sequence numbers are exactly 1..N in order
func IsContiguous(events []EscalationEvent) bool {
	for i, e := range events {
		if e.SequenceNo != i+1 {
			return false
		}
	}
	return true
}

// IsChronological reports whether effective dates never decrease along the
// sequence. Out-of-order schedules are accepted but worth a warning.
func IsChronological(events []EscalationEvent) bool {
	for i := 1; i < len(events); i++ {
		if events[i].EffectiveFrom.Before(events[i-1].EffectiveFrom) {
			return false
		}
	}
	return true
}

// RentAsOf applies, in sequence order, every escalation effective on or before
// date to the base rent.
func RentAsOf(base decimal.Decimal, events []EscalationEvent, date time.Time) decimal.Decimal {
	rent := base
	for _, e := range events {
		if e.EffectiveFrom.After(date) {
			continue
		}
		rent = e.Apply(rent)
	}
	return rent
}

func escalationField(i int, name string) string {
	return "escalations[" + strconv.Itoa(i) + "]." + name
}
