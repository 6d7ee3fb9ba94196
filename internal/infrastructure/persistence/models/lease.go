package models

import (
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseModel is the persistence model for the Lease aggregate root.
type LeaseModel struct {
	BaseModel
	ProjectID   int64  `gorm:"not null;index"`
	UnitID      int64  `gorm:"not null;index"`
	OwnerID     *int64 `gorm:"index"`
	TenantID    int64  `gorm:"not null;index"`
	SubTenantID *int64

	LeaseStart           time.Time  `gorm:"type:date;not null"`
	LeaseEnd             time.Time  `gorm:"type:date;not null;index"`
	RentCommencementDate time.Time  `gorm:"type:date;not null"`
	FitoutPeriodEnd      *time.Time `gorm:"type:date"`
	TenureMonths         int        `gorm:"not null"`
	LockinPeriodMonths   int        `gorm:"not null"`
	NoticePeriodMonths   int        `gorm:"not null"`

	MonthlyRent              decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	CamCharges               decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	BillingFrequency         string           `gorm:"type:varchar(20);not null"`
	PaymentDueDay            int              `gorm:"not null"`
	CurrencyCode             string           `gorm:"type:varchar(3);not null"`
	SecurityDeposit          decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	UtilityDeposit           decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	DepositType              string           `gorm:"type:varchar(50)"`
	RevenueSharePercentage   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	RevenueShareApplicableOn string           `gorm:"type:varchar(50)"`
	SubLeaseAreaSqft         *decimal.Decimal `gorm:"type:decimal(12,2)"`

	LeaseType string `gorm:"type:varchar(30)"`
	RentModel string `gorm:"type:varchar(30);not null"`
	Status    string `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease without its schedule.
func (m *LeaseModel) ToDomain() *lease.Lease {
	return &lease.Lease{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		ProjectID:                m.ProjectID,
		UnitID:                   m.UnitID,
		OwnerID:                  m.OwnerID,
		TenantID:                 m.TenantID,
		SubTenantID:              m.SubTenantID,
		LeaseStart:               shared.DateOnly(m.LeaseStart),
		LeaseEnd:                 shared.DateOnly(m.LeaseEnd),
		RentCommencementDate:     shared.DateOnly(m.RentCommencementDate),
		FitoutPeriodEnd:          dateOnlyPtr(m.FitoutPeriodEnd),
		TenureMonths:             m.TenureMonths,
		LockinPeriodMonths:       m.LockinPeriodMonths,
		NoticePeriodMonths:       m.NoticePeriodMonths,
		MonthlyRent:              m.MonthlyRent,
		CamCharges:               m.CamCharges,
		BillingFrequency:         lease.BillingFrequency(m.BillingFrequency),
		PaymentDueDay:            m.PaymentDueDay,
		CurrencyCode:             m.CurrencyCode,
		SecurityDeposit:          m.SecurityDeposit,
		UtilityDeposit:           m.UtilityDeposit,
		DepositType:              m.DepositType,
		RevenueSharePercentage:   m.RevenueSharePercentage,
		RevenueShareApplicableOn: m.RevenueShareApplicableOn,
		SubLeaseAreaSqft:         m.SubLeaseAreaSqft,
		LeaseType:                lease.LeaseType(m.LeaseType),
		RentModel:                lease.RentModel(m.RentModel),
		Status:                   lease.Status(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Lease.
func (m *LeaseModel) FromDomain(l *lease.Lease) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.ProjectID = l.ProjectID
	m.UnitID = l.UnitID
	m.OwnerID = l.OwnerID
	m.TenantID = l.TenantID
	m.SubTenantID = l.SubTenantID
	m.LeaseStart = l.LeaseStart
	m.LeaseEnd = l.LeaseEnd
	m.RentCommencementDate = l.RentCommencementDate
	m.FitoutPeriodEnd = l.FitoutPeriodEnd
	m.TenureMonths = l.TenureMonths
	m.LockinPeriodMonths = l.LockinPeriodMonths
	m.NoticePeriodMonths = l.NoticePeriodMonths
	m.MonthlyRent = l.MonthlyRent
	m.CamCharges = l.CamCharges
	m.BillingFrequency = string(l.BillingFrequency)
	m.PaymentDueDay = l.PaymentDueDay
	m.CurrencyCode = l.CurrencyCode
	m.SecurityDeposit = l.SecurityDeposit
	m.UtilityDeposit = l.UtilityDeposit
	m.DepositType = l.DepositType
	m.RevenueSharePercentage = l.RevenueSharePercentage
	m.RevenueShareApplicableOn = l.RevenueShareApplicableOn
	m.SubLeaseAreaSqft = l.SubLeaseAreaSqft
	m.LeaseType = string(l.LeaseType)
	m.RentModel = string(l.RentModel)
	m.Status = string(l.Status)
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease.
func LeaseModelFromDomain(l *lease.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}

// LeaseEscalationModel is the persistence model for a scheduled rent increase.
type LeaseEscalationModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	LeaseID       int64           `gorm:"not null;uniqueIndex:idx_lease_escalations_lease_seq,priority:1"`
	SequenceNo    int             `gorm:"not null;uniqueIndex:idx_lease_escalations_lease_seq,priority:2"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;index"`
	IncreaseType  string          `gorm:"type:varchar(20);not null"`
	Value         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeaseEscalationModel) TableName() string {
	return "lease_escalations"
}

// ToDomain converts the persistence model to a domain EscalationEvent.
func (m *LeaseEscalationModel) ToDomain() lease.EscalationEvent {
	return lease.EscalationEvent{
		ID:            m.ID,
		LeaseID:       m.LeaseID,
		SequenceNo:    m.SequenceNo,
		EffectiveFrom: shared.DateOnly(m.EffectiveFrom),
		IncreaseType:  lease.IncreaseType(m.IncreaseType),
		Value:         m.Value,
		CreatedAt:     m.CreatedAt,
	}
}

// LeaseEscalationModelFromDomain creates a persistence model from a domain EscalationEvent.
func LeaseEscalationModelFromDomain(e lease.EscalationEvent) *LeaseEscalationModel {
	return &LeaseEscalationModel{
		ID:            e.ID,
		LeaseID:       e.LeaseID,
		SequenceNo:    e.SequenceNo,
		EffectiveFrom: e.EffectiveFrom,
		IncreaseType:  string(e.IncreaseType),
		Value:         e.Value,
		CreatedAt:     e.CreatedAt,
	}
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := shared.DateOnly(*t)
	return &d
}
