package lease

import (
	"math"
	"strings"
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrencyCode is used when a lease does not name a currency
const DefaultCurrencyCode = "INR"

// Lease is the aggregate root binding a tenant to a unit for a period.
// Party references are plain foreign ids; the lease owns only its escalations.
type Lease struct {
	shared.BaseAggregateRoot

	ProjectID   int64
	UnitID      int64
	OwnerID     *int64
	TenantID    int64
	SubTenantID *int64

	LeaseStart           time.Time
	LeaseEnd             time.Time
	RentCommencementDate time.Time
	FitoutPeriodEnd      *time.Time
	TenureMonths         int
	LockinPeriodMonths   int
	NoticePeriodMonths   int

	MonthlyRent              decimal.Decimal
	CamCharges               decimal.Decimal
	BillingFrequency         BillingFrequency
	PaymentDueDay            int
	CurrencyCode             string
	SecurityDeposit          decimal.Decimal
	UtilityDeposit           decimal.Decimal
	DepositType              string
	RevenueSharePercentage   *decimal.Decimal
	RevenueShareApplicableOn string
	SubLeaseAreaSqft         *decimal.Decimal

	LeaseType LeaseType
	RentModel RentModel
	Status    Status

	Escalations []EscalationEvent
}

// CreateInput carries everything needed to create a lease. Zero dates mean
// absent; a nil TenureMonths asks for the derived default.
type CreateInput struct {
	ProjectID   int64
	UnitID      int64
	OwnerID     *int64
	TenantID    int64
	SubTenantID *int64

	LeaseStart           time.Time
	LeaseEnd             time.Time
	RentCommencementDate time.Time
	FitoutPeriodEnd      *time.Time
	TenureMonths         *int
	LockinPeriodMonths   int
	NoticePeriodMonths   int

	MonthlyRent              decimal.Decimal
	CamCharges               decimal.Decimal
	BillingFrequency         BillingFrequency
	PaymentDueDay            int
	CurrencyCode             string
	SecurityDeposit          decimal.Decimal
	UtilityDeposit           decimal.Decimal
	DepositType              string
	RevenueSharePercentage   *decimal.Decimal
	RevenueShareApplicableOn string
	SubLeaseAreaSqft         *decimal.Decimal

	LeaseType LeaseType
	RentModel RentModel

	Escalations []EscalationInput
}

// NewLease validates the input and builds a draft lease. Any client-supplied
// status is ignored: new leases always start as draft.
func NewLease(in CreateInput) (*Lease, error) {
	if in.ProjectID <= 0 {
		return nil, shared.NewValidationError("project_id", "is required")
	}
	if in.UnitID <= 0 {
		return nil, shared.NewValidationError("unit_id", "is required")
	}
	if in.TenantID <= 0 {
		return nil, shared.NewValidationError("tenant_id", "is required")
	}
	if in.LeaseStart.IsZero() {
		return nil, shared.NewValidationError("lease_start", "is required")
	}
	if in.LeaseEnd.IsZero() {
		return nil, shared.NewValidationError("lease_end", "is required")
	}
	if in.RentCommencementDate.IsZero() {
		return nil, shared.NewValidationError("rent_commencement_date", "is required")
	}

	l := &Lease{
		BaseAggregateRoot:        shared.NewBaseAggregateRoot(),
		ProjectID:                in.ProjectID,
		UnitID:                   in.UnitID,
		OwnerID:                  in.OwnerID,
		TenantID:                 in.TenantID,
		SubTenantID:              in.SubTenantID,
		LeaseStart:               shared.DateOnly(in.LeaseStart),
		LeaseEnd:                 shared.DateOnly(in.LeaseEnd),
		RentCommencementDate:     shared.DateOnly(in.RentCommencementDate),
		FitoutPeriodEnd:          dateOnlyPtr(in.FitoutPeriodEnd),
		LockinPeriodMonths:       in.LockinPeriodMonths,
		NoticePeriodMonths:       in.NoticePeriodMonths,
		MonthlyRent:              in.MonthlyRent,
		CamCharges:               in.CamCharges,
		BillingFrequency:         in.BillingFrequency,
		PaymentDueDay:            in.PaymentDueDay,
		CurrencyCode:             strings.ToUpper(strings.TrimSpace(in.CurrencyCode)),
		SecurityDeposit:          in.SecurityDeposit,
		UtilityDeposit:           in.UtilityDeposit,
		DepositType:              in.DepositType,
		RevenueSharePercentage:   in.RevenueSharePercentage,
		RevenueShareApplicableOn: in.RevenueShareApplicableOn,
		SubLeaseAreaSqft:         in.SubLeaseAreaSqft,
		LeaseType:                in.LeaseType,
		RentModel:                in.RentModel,
		Status:                   StatusDraft,
	}

	if in.TenureMonths != nil {
		l.TenureMonths = *in.TenureMonths
	} else {
		l.TenureMonths = DeriveTenureMonths(l.LeaseStart, l.LeaseEnd)
	}
	if l.CurrencyCode == "" {
		l.CurrencyCode = DefaultCurrencyCode
	}
	if l.BillingFrequency == "" {
		l.BillingFrequency = BillingMonthly
	}
	if l.RentModel == "" {
		l.RentModel = RentModelFixed
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}

	schedule, err := BuildSchedule(0, in.Escalations)
	if err != nil {
		return nil, err
	}
	l.Escalations = schedule

	return l, nil
}

// DeriveTenureMonths returns round(days / 30) between start and end, or 0
// when either date is missing.
func DeriveTenureMonths(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	days := end.Sub(start).Hours() / 24
	months := math.Round(days / 30)
	if math.IsNaN(months) || math.IsInf(months, 0) {
		return 0
	}
	return int(months)
}

// Validate checks the lease invariants that hold for every stored lease
func (l *Lease) Validate() error {
	if !l.LeaseStart.Before(l.LeaseEnd) {
		return shared.NewValidationError("lease_end", "must be after lease_start")
	}
	if l.RentCommencementDate.Before(l.LeaseStart) {
		return shared.NewValidationError("rent_commencement_date", "cannot be before lease_start")
	}
	if l.FitoutPeriodEnd != nil && l.FitoutPeriodEnd.Before(l.LeaseStart) {
		return shared.NewValidationError("fitout_period_end", "cannot be before lease_start")
	}

	if !l.LeaseType.IsValid() {
		return shared.NewValidationError("lease_type", "is not a recognised lease type")
	}
	switch l.LeaseType {
	case LeaseTypeDirect:
		if l.OwnerID == nil || *l.OwnerID <= 0 {
			return shared.NewValidationError("owner_id", "is required for DirectLease")
		}
	case LeaseTypeSubtenant:
		if l.SubTenantID == nil || *l.SubTenantID <= 0 {
			return shared.NewValidationError("sub_tenant_id", "is required for SubtenantLease")
		}
		if l.SubLeaseAreaSqft == nil || !l.SubLeaseAreaSqft.IsPositive() {
			return shared.NewValidationError("sub_lease_area_sqft", "is required for SubtenantLease")
		}
	}

	if !l.RentModel.IsValid() {
		return shared.NewValidationError("rent_model", "is not a recognised rent model")
	}
	if l.RevenueSharePercentage != nil {
		p := *l.RevenueSharePercentage
		if p.IsNegative() || p.GreaterThan(hundred) {
			return shared.NewValidationError("revenue_share_percentage", "must be between 0 and 100")
		}
	}
	if !l.BillingFrequency.IsValid() {
		return shared.NewValidationError("billing_frequency", "must be monthly, quarterly, half_yearly or yearly")
	}
	if l.PaymentDueDay < 0 || l.PaymentDueDay > 31 {
		return shared.NewValidationError("payment_due_day", "must be between 1 and 31")
	}
	if _, err := currency.ParseISO(l.CurrencyCode); err != nil {
		return shared.NewValidationError("currency_code", "must be an ISO 4217 code")
	}

	for field, amount := range map[string]decimal.Decimal{
		"monthly_rent":     l.MonthlyRent,
		"cam_charges":      l.CamCharges,
		"security_deposit": l.SecurityDeposit,
		"utility_deposit":  l.UtilityDeposit,
	} {
		if amount.IsNegative() {
			return shared.NewValidationError(field, "cannot be negative")
		}
	}
	if l.TenureMonths < 0 {
		return shared.NewValidationError("tenure_months", "cannot be negative")
	}
	if l.LockinPeriodMonths < 0 {
		return shared.NewValidationError("lockin_period_months", "cannot be negative")
	}
	if l.NoticePeriodMonths < 0 {
		return shared.NewValidationError("notice_period_months", "cannot be negative")
	}
	return nil
}

// MarkCreated records the creation event once the store has assigned an id
func (l *Lease) MarkCreated() {
	l.Raise(NewLeaseCreatedEvent(l))
}

// Approve moves a draft lease to approved
func (l *Lease) Approve() error {
	return l.transition(StatusApproved)
}

// Reject moves a draft lease to rejected
func (l *Lease) Reject() error {
	return l.transition(StatusRejected)
}

// Terminate ends a draft, approved or active lease
func (l *Lease) Terminate() error {
	return l.transition(StatusTerminated)
}

func (l *Lease) transition(target Status) error {
	if !l.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("cannot move lease from " + l.Status.String() + " to " + target.String())
	}
	from := l.Status
	l.Status = target
	l.Touch()
	l.Raise(NewLeaseStatusChangedEvent(l, from))
	return nil
}

// EffectiveStatus returns the read-time status as of today
func (l *Lease) EffectiveStatus(today time.Time) Status {
	return EffectiveStatus(l.Status, l.LeaseEnd, today)
}

// CurrentRent returns the monthly rent with every escalation effective on or
// before date applied.
func (l *Lease) CurrentRent(date time.Time) decimal.Decimal {
	return RentAsOf(l.MonthlyRent, l.Escalations, date)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := shared.DateOnly(*t)
	return &d
}
