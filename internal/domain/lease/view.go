package lease

import (
	"time"

	"github.com/shopspring/decimal"
)

// View is a lease joined with the display names of its parties, its
// escalation schedule and read-time derived fields.
type View struct {
	Lease

	ProjectName   string
	UnitNumber    string
	TenantName    string
	OwnerName     string
	SubTenantName string

	EffectiveStatus Status
	DaysRemaining   int
}

// Summary is one row of the lease listing
type Summary struct {
	ID              int64
	ProjectID       int64
	ProjectName     string
	UnitID          int64
	UnitNumber      string
	TenantID        int64
	TenantName      string
	LeaseType       LeaseType
	LeaseStart      time.Time
	LeaseEnd        time.Time
	MonthlyRent     decimal.Decimal
	Status          Status
	EffectiveStatus Status
}

// ListFilter narrows the lease listing. Status may be any stored status or
// one of the derived statuses active and expired, evaluated against Today.
type ListFilter struct {
	Status    Status
	ProjectID *int64
	Search    string
	Today     time.Time
	SortBy    string
	SortOrder string
}
