package lease

import (
	"strings"
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Patch is a sparse update: nil fields are left untouched. Escalations, when
// non-nil (even pointing at an empty slice), replaces the whole schedule.
// project_id, unit_id and status are not patchable; status moves only through
// the lifecycle operations.
type Patch struct {
	OwnerID     *int64
	TenantID    *int64
	SubTenantID *int64

	LeaseStart           *time.Time
	LeaseEnd             *time.Time
	RentCommencementDate *time.Time
	FitoutPeriodEnd      *time.Time
	TenureMonths         *int
	LockinPeriodMonths   *int
	NoticePeriodMonths   *int

	MonthlyRent              *decimal.Decimal
	CamCharges               *decimal.Decimal
	BillingFrequency         *BillingFrequency
	PaymentDueDay            *int
	CurrencyCode             *string
	SecurityDeposit          *decimal.Decimal
	UtilityDeposit           *decimal.Decimal
	DepositType              *string
	RevenueSharePercentage   *decimal.Decimal
	RevenueShareApplicableOn *string
	SubLeaseAreaSqft         *decimal.Decimal

	LeaseType *LeaseType
	RentModel *RentModel

	Escalations *[]EscalationInput
}

// HasEscalations reports whether the patch replaces the schedule
func (p Patch) HasEscalations() bool {
	return p.Escalations != nil
}

// IsEmpty reports whether the patch changes nothing at all
func (p Patch) IsEmpty() bool {
	return len(p.fieldSetters(&Lease{})) == 0 && !p.HasEscalations()
}

// Apply writes the present fields onto l, re-validates the lease invariants
// and returns the names of the written fields in a stable order.
func (p Patch) Apply(l *Lease) ([]string, error) {
	setters := p.fieldSetters(l)
	fields := make([]string, 0, len(setters))
	for _, s := range setters {
		s.set()
		fields = append(fields, s.field)
	}
	if len(fields) == 0 {
		return fields, nil
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.Touch()
	return fields, nil
}

type fieldSetter struct {
	field string
	set   func()
}

func (p Patch) fieldSetters(l *Lease) []fieldSetter {
	var out []fieldSetter
	add := func(present bool, field string, set func()) {
		if present {
			out = append(out, fieldSetter{field: field, set: set})
		}
	}

	add(p.OwnerID != nil, "owner_id", func() { l.OwnerID = p.OwnerID })
	add(p.TenantID != nil, "tenant_id", func() { l.TenantID = *p.TenantID })
	add(p.SubTenantID != nil, "sub_tenant_id", func() { l.SubTenantID = p.SubTenantID })
	add(p.LeaseStart != nil, "lease_start", func() { l.LeaseStart = shared.DateOnly(*p.LeaseStart) })
	add(p.LeaseEnd != nil, "lease_end", func() { l.LeaseEnd = shared.DateOnly(*p.LeaseEnd) })
	add(p.RentCommencementDate != nil, "rent_commencement_date", func() {
		l.RentCommencementDate = shared.DateOnly(*p.RentCommencementDate)
	})
	add(p.FitoutPeriodEnd != nil, "fitout_period_end", func() { l.FitoutPeriodEnd = dateOnlyPtr(p.FitoutPeriodEnd) })
	add(p.TenureMonths != nil, "tenure_months", func() { l.TenureMonths = *p.TenureMonths })
	add(p.LockinPeriodMonths != nil, "lockin_period_months", func() { l.LockinPeriodMonths = *p.LockinPeriodMonths })
	add(p.NoticePeriodMonths != nil, "notice_period_months", func() { l.NoticePeriodMonths = *p.NoticePeriodMonths })
	add(p.MonthlyRent != nil, "monthly_rent", func() { l.MonthlyRent = *p.MonthlyRent })
	add(p.CamCharges != nil, "cam_charges", func() { l.CamCharges = *p.CamCharges })
	add(p.BillingFrequency != nil, "billing_frequency", func() { l.BillingFrequency = *p.BillingFrequency })
	add(p.PaymentDueDay != nil, "payment_due_day", func() { l.PaymentDueDay = *p.PaymentDueDay })
	add(p.CurrencyCode != nil, "currency_code", func() {
		l.CurrencyCode = strings.ToUpper(strings.TrimSpace(*p.CurrencyCode))
	})
	add(p.SecurityDeposit != nil, "security_deposit", func() { l.SecurityDeposit = *p.SecurityDeposit })
	add(p.UtilityDeposit != nil, "utility_deposit", func() { l.UtilityDeposit = *p.UtilityDeposit })
	add(p.DepositType != nil, "deposit_type", func() { l.DepositType = *p.DepositType })
	add(p.RevenueSharePercentage != nil, "revenue_share_percentage", func() {
		l.RevenueSharePercentage = p.RevenueSharePercentage
	})
	add(p.RevenueShareApplicableOn != nil, "revenue_share_applicable_on", func() {
		l.RevenueShareApplicableOn = *p.RevenueShareApplicableOn
	})
	add(p.SubLeaseAreaSqft != nil, "sub_lease_area_sqft", func() { l.SubLeaseAreaSqft = p.SubLeaseAreaSqft })
	add(p.LeaseType != nil, "lease_type", func() { l.LeaseType = *p.LeaseType })
	add(p.RentModel != nil, "rent_model", func() { l.RentModel = *p.RentModel })

	return out
}
