package lease

import (
	"strconv"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EscalationRequest is one entry of a lease's escalation schedule. Its
// position in the request decides its sequence number.
type EscalationRequest struct {
	EffectiveFrom string          `json:"effective_from" binding:"required,leasedate"`
	IncreaseType  string          `json:"increase_type" binding:"omitempty,oneof=Percentage FixedAmount"`
	Value         decimal.Decimal `json:"value"`
}

// CreateLeaseRequest is the payload of CreateLease. Dates are YYYY-MM-DD.
type CreateLeaseRequest struct {
	ProjectID   int64  `json:"project_id"`
	UnitID      int64  `json:"unit_id"`
	OwnerID     *int64 `json:"owner_id"`
	TenantID    int64  `json:"tenant_id"`
	SubTenantID *int64 `json:"sub_tenant_id"`

	LeaseStart           string  `json:"lease_start" binding:"omitempty,leasedate"`
	LeaseEnd             string  `json:"lease_end" binding:"omitempty,leasedate"`
	RentCommencementDate string  `json:"rent_commencement_date" binding:"omitempty,leasedate"`
	FitoutPeriodEnd      *string `json:"fitout_period_end" binding:"omitempty,leasedate"`
	TenureMonths         *int    `json:"tenure_months" binding:"omitempty,min=0"`
	LockinPeriodMonths   int     `json:"lockin_period_months" binding:"min=0"`
	NoticePeriodMonths   int     `json:"notice_period_months" binding:"min=0"`

	MonthlyRent              decimal.Decimal  `json:"monthly_rent"`
	CamCharges               decimal.Decimal  `json:"cam_charges"`
	BillingFrequency         string           `json:"billing_frequency"`
	PaymentDueDay            int              `json:"payment_due_day" binding:"min=0,max=31"`
	CurrencyCode             string           `json:"currency_code"`
	SecurityDeposit          decimal.Decimal  `json:"security_deposit"`
	UtilityDeposit           decimal.Decimal  `json:"utility_deposit"`
	DepositType              string           `json:"deposit_type"`
	RevenueSharePercentage   *decimal.Decimal `json:"revenue_share_percentage"`
	RevenueShareApplicableOn string           `json:"revenue_share_applicable_on"`
	SubLeaseAreaSqft         *decimal.Decimal `json:"sub_lease_area_sqft"`

	LeaseType string `json:"lease_type"`
	RentModel string `json:"rent_model"`

	// Status is accepted for compatibility and ignored; new leases are draft
	Status string `json:"status"`

	Escalations []EscalationRequest `json:"escalations" binding:"omitempty,dive"`
}

// ToInput converts the request into the domain input
func (r CreateLeaseRequest) ToInput() (lease.CreateInput, error) {
	in := lease.CreateInput{
		ProjectID:                r.ProjectID,
		UnitID:                   r.UnitID,
		OwnerID:                  positiveID(r.OwnerID),
		TenantID:                 r.TenantID,
		SubTenantID:              positiveID(r.SubTenantID),
		TenureMonths:             r.TenureMonths,
		LockinPeriodMonths:       r.LockinPeriodMonths,
		NoticePeriodMonths:       r.NoticePeriodMonths,
		MonthlyRent:              r.MonthlyRent,
		CamCharges:               r.CamCharges,
		BillingFrequency:         lease.BillingFrequency(r.BillingFrequency),
		PaymentDueDay:            r.PaymentDueDay,
		CurrencyCode:             r.CurrencyCode,
		SecurityDeposit:          r.SecurityDeposit,
		UtilityDeposit:           r.UtilityDeposit,
		DepositType:              r.DepositType,
		RevenueSharePercentage:   r.RevenueSharePercentage,
		RevenueShareApplicableOn: r.RevenueShareApplicableOn,
		SubLeaseAreaSqft:         r.SubLeaseAreaSqft,
		LeaseType:                lease.LeaseType(r.LeaseType),
		RentModel:                lease.RentModel(r.RentModel),
	}

	var err error
	if in.LeaseStart, err = parseOptionalDate("lease_start", r.LeaseStart); err != nil {
		return in, err
	}
	if in.LeaseEnd, err = parseOptionalDate("lease_end", r.LeaseEnd); err != nil {
		return in, err
	}
	if in.RentCommencementDate, err = parseOptionalDate("rent_commencement_date", r.RentCommencementDate); err != nil {
		return in, err
	}
	if in.FitoutPeriodEnd, err = parseDatePtr("fitout_period_end", r.FitoutPeriodEnd); err != nil {
		return in, err
	}
	if in.Escalations, err = toEscalationInputs(r.Escalations); err != nil {
		return in, err
	}
	return in, nil
}

// UpdateLeaseRequest is a sparse patch: omitted fields are left untouched.
// Escalations present as [] clears the schedule; omitted keeps it.
type UpdateLeaseRequest struct {
	OwnerID     *int64 `json:"owner_id"`
	TenantID    *int64 `json:"tenant_id" binding:"omitempty,min=1"`
	SubTenantID *int64 `json:"sub_tenant_id"`

	LeaseStart           *string `json:"lease_start" binding:"omitempty,leasedate"`
	LeaseEnd             *string `json:"lease_end" binding:"omitempty,leasedate"`
	RentCommencementDate *string `json:"rent_commencement_date" binding:"omitempty,leasedate"`
	FitoutPeriodEnd      *string `json:"fitout_period_end" binding:"omitempty,leasedate"`
	TenureMonths         *int    `json:"tenure_months" binding:"omitempty,min=0"`
	LockinPeriodMonths   *int    `json:"lockin_period_months" binding:"omitempty,min=0"`
	NoticePeriodMonths   *int    `json:"notice_period_months" binding:"omitempty,min=0"`

	MonthlyRent              *decimal.Decimal `json:"monthly_rent"`
	CamCharges               *decimal.Decimal `json:"cam_charges"`
	BillingFrequency         *string          `json:"billing_frequency"`
	PaymentDueDay            *int             `json:"payment_due_day" binding:"omitempty,min=0,max=31"`
	CurrencyCode             *string          `json:"currency_code"`
	SecurityDeposit          *decimal.Decimal `json:"security_deposit"`
	UtilityDeposit           *decimal.Decimal `json:"utility_deposit"`
	DepositType              *string          `json:"deposit_type"`
	RevenueSharePercentage   *decimal.Decimal `json:"revenue_share_percentage"`
	RevenueShareApplicableOn *string          `json:"revenue_share_applicable_on"`
	SubLeaseAreaSqft         *decimal.Decimal `json:"sub_lease_area_sqft"`

	LeaseType *string `json:"lease_type"`
	RentModel *string `json:"rent_model"`

	Escalations *[]EscalationRequest `json:"escalations" binding:"omitempty"`
}

// ToPatch converts the request into a domain patch
func (r UpdateLeaseRequest) ToPatch() (lease.Patch, error) {
	p := lease.Patch{
		OwnerID:                  r.OwnerID,
		TenantID:                 r.TenantID,
		SubTenantID:              r.SubTenantID,
		TenureMonths:             r.TenureMonths,
		LockinPeriodMonths:       r.LockinPeriodMonths,
		NoticePeriodMonths:       r.NoticePeriodMonths,
		MonthlyRent:              r.MonthlyRent,
		CamCharges:               r.CamCharges,
		PaymentDueDay:            r.PaymentDueDay,
		CurrencyCode:             r.CurrencyCode,
		SecurityDeposit:          r.SecurityDeposit,
		UtilityDeposit:           r.UtilityDeposit,
		DepositType:              r.DepositType,
		RevenueSharePercentage:   r.RevenueSharePercentage,
		RevenueShareApplicableOn: r.RevenueShareApplicableOn,
		SubLeaseAreaSqft:         r.SubLeaseAreaSqft,
	}
	if r.BillingFrequency != nil {
		f := lease.BillingFrequency(*r.BillingFrequency)
		p.BillingFrequency = &f
	}
	if r.LeaseType != nil {
		t := lease.LeaseType(*r.LeaseType)
		p.LeaseType = &t
	}
	if r.RentModel != nil {
		m := lease.RentModel(*r.RentModel)
		p.RentModel = &m
	}

	var err error
	if p.LeaseStart, err = parseDatePtr("lease_start", r.LeaseStart); err != nil {
		return p, err
	}
	if p.LeaseEnd, err = parseDatePtr("lease_end", r.LeaseEnd); err != nil {
		return p, err
	}
	if p.RentCommencementDate, err = parseDatePtr("rent_commencement_date", r.RentCommencementDate); err != nil {
		return p, err
	}
	if p.FitoutPeriodEnd, err = parseDatePtr("fitout_period_end", r.FitoutPeriodEnd); err != nil {
		return p, err
	}
	if r.Escalations != nil {
		inputs, err := toEscalationInputs(*r.Escalations)
		if err != nil {
			return p, err
		}
		p.Escalations = &inputs
	}
	return p, nil
}

// ListLeasesRequest filters the lease listing
type ListLeasesRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=draft approved active expired terminated rejected"`
	ProjectID *int64 `form:"project_id" binding:"omitempty,min=1"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at lease_start lease_end monthly_rent"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// CreateLeaseResponse carries the id of a newly created lease
type CreateLeaseResponse struct {
	LeaseID int64 `json:"lease_id"`
}

// EscalationResponse is a stored escalation event
type EscalationResponse struct {
	ID            int64           `json:"id"`
	SequenceNo    int             `json:"sequence_no"`
	EffectiveFrom string          `json:"effective_from"`
	IncreaseType  string          `json:"increase_type"`
	Value         decimal.Decimal `json:"value"`
}

// ToEscalationResponses converts a schedule for output
func ToEscalationResponses(events []lease.EscalationEvent) []EscalationResponse {
	out := make([]EscalationResponse, len(events))
	for i, e := range events {
		out[i] = EscalationResponse{
			ID:            e.ID,
			SequenceNo:    e.SequenceNo,
			EffectiveFrom: formatDate(e.EffectiveFrom),
			IncreaseType:  string(e.IncreaseType),
			Value:         e.Value,
		}
	}
	return out
}

// LeaseResponse is the full lease view
type LeaseResponse struct {
	ID            int64   `json:"id"`
	ProjectID     int64   `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	UnitID        int64   `json:"unit_id"`
	UnitNumber    string  `json:"unit_number"`
	OwnerID       *int64  `json:"owner_id"`
	OwnerName     string  `json:"owner_name,omitempty"`
	TenantID      int64   `json:"tenant_id"`
	TenantName    string  `json:"tenant_name"`
	SubTenantID   *int64  `json:"sub_tenant_id"`
	SubTenantName string  `json:"sub_tenant_name,omitempty"`
	LeaseType     string  `json:"lease_type"`
	RentModel     string  `json:"rent_model"`
	Status        string  `json:"status"`
	StoredStatus  string  `json:"stored_status"`
	DaysRemaining int     `json:"days_remaining"`
	LeaseStart    string  `json:"lease_start"`
	LeaseEnd      string  `json:"lease_end"`
	RentStart     string  `json:"rent_commencement_date"`
	FitoutEnd     *string `json:"fitout_period_end"`

	TenureMonths       int `json:"tenure_months"`
	LockinPeriodMonths int `json:"lockin_period_months"`
	NoticePeriodMonths int `json:"notice_period_months"`

	MonthlyRent              decimal.Decimal  `json:"monthly_rent"`
	CurrentRent              decimal.Decimal  `json:"current_rent"`
	CamCharges               decimal.Decimal  `json:"cam_charges"`
	BillingFrequency         string           `json:"billing_frequency"`
	PaymentDueDay            int              `json:"payment_due_day"`
	CurrencyCode             string           `json:"currency_code"`
	SecurityDeposit          decimal.Decimal  `json:"security_deposit"`
	UtilityDeposit           decimal.Decimal  `json:"utility_deposit"`
	DepositType              string           `json:"deposit_type"`
	RevenueSharePercentage   *decimal.Decimal `json:"revenue_share_percentage"`
	RevenueShareApplicableOn string           `json:"revenue_share_applicable_on"`
	SubLeaseAreaSqft         *decimal.Decimal `json:"sub_lease_area_sqft"`

	Escalations []EscalationResponse `json:"escalations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLeaseResponse converts a lease view. today drives the current rent.
func ToLeaseResponse(v *lease.View, today time.Time) LeaseResponse {
	var fitout *string
	if v.FitoutPeriodEnd != nil {
		s := formatDate(*v.FitoutPeriodEnd)
		fitout = &s
	}
	return LeaseResponse{
		ID:                       v.ID,
		ProjectID:                v.ProjectID,
		ProjectName:              v.ProjectName,
		UnitID:                   v.UnitID,
		UnitNumber:               v.UnitNumber,
		OwnerID:                  v.OwnerID,
		OwnerName:                v.OwnerName,
		TenantID:                 v.TenantID,
		TenantName:               v.TenantName,
		SubTenantID:              v.SubTenantID,
		SubTenantName:            v.SubTenantName,
		LeaseType:                string(v.LeaseType),
		RentModel:                string(v.RentModel),
		Status:                   string(v.EffectiveStatus),
		StoredStatus:             string(v.Status),
		DaysRemaining:            v.DaysRemaining,
		LeaseStart:               formatDate(v.LeaseStart),
		LeaseEnd:                 formatDate(v.LeaseEnd),
		RentStart:                formatDate(v.RentCommencementDate),
		FitoutEnd:                fitout,
		TenureMonths:             v.TenureMonths,
		LockinPeriodMonths:       v.LockinPeriodMonths,
		NoticePeriodMonths:       v.NoticePeriodMonths,
		MonthlyRent:              v.MonthlyRent,
		CurrentRent:              v.CurrentRent(today),
		CamCharges:               v.CamCharges,
		BillingFrequency:         string(v.BillingFrequency),
		PaymentDueDay:            v.PaymentDueDay,
		CurrencyCode:             v.CurrencyCode,
		SecurityDeposit:          v.SecurityDeposit,
		UtilityDeposit:           v.UtilityDeposit,
		DepositType:              v.DepositType,
		RevenueSharePercentage:   v.RevenueSharePercentage,
		RevenueShareApplicableOn: v.RevenueShareApplicableOn,
		SubLeaseAreaSqft:         v.SubLeaseAreaSqft,
		Escalations:              ToEscalationResponses(v.Escalations),
		CreatedAt:                v.CreatedAt,
		UpdatedAt:                v.UpdatedAt,
	}
}

// LeaseListItemResponse is one row of the lease listing
type LeaseListItemResponse struct {
	ID           int64           `json:"id"`
	ProjectID    int64           `json:"project_id"`
	ProjectName  string          `json:"project_name"`
	UnitID       int64           `json:"unit_id"`
	UnitNumber   string          `json:"unit_number"`
	TenantID     int64           `json:"tenant_id"`
	TenantName   string          `json:"tenant_name"`
	LeaseType    string          `json:"lease_type"`
	LeaseStart   string          `json:"lease_start"`
	LeaseEnd     string          `json:"lease_end"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	Status       string          `json:"status"`
	StoredStatus string          `json:"stored_status"`
}

// ToLeaseListItemResponse converts a lease summary
func ToLeaseListItemResponse(s lease.Summary) LeaseListItemResponse {
	return LeaseListItemResponse{
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		ProjectName:  s.ProjectName,
		UnitID:       s.UnitID,
		UnitNumber:   s.UnitNumber,
		TenantID:     s.TenantID,
		TenantName:   s.TenantName,
		LeaseType:    string(s.LeaseType),
		LeaseStart:   formatDate(s.LeaseStart),
		LeaseEnd:     formatDate(s.LeaseEnd),
		MonthlyRent:  s.MonthlyRent,
		Status:       string(s.EffectiveStatus),
		StoredStatus: string(s.Status),
	}
}

func toEscalationInputs(reqs []EscalationRequest) ([]lease.EscalationInput, error) {
	inputs := make([]lease.EscalationInput, len(reqs))
	for i, r := range reqs {
		field := "escalations[" + strconv.Itoa(i) + "].effective_from"
		d, err := parseOptionalDate(field, r.EffectiveFrom)
		if err != nil {
			return nil, err
		}
		inputs[i] = lease.EscalationInput{
			EffectiveFrom: d,
			IncreaseType:  lease.IncreaseType(r.IncreaseType),
			Value:         r.Value,
		}
	}
	return inputs, nil
}

// parseOptionalDate returns the zero time for an empty string so the domain
// can report the field as missing.
func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := shared.ParseDate(s)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return d, nil
}

func parseDatePtr(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := shared.ParseDate(*s)
	if err != nil {
		return nil, shared.NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return &d, nil
}

func positiveID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
