package party

import (
	"context"
	"time"
)

// Type distinguishes the parties that can be assigned to a unit
type Type string

const (
	TypeOwner  Type = "owner"
	TypeTenant Type = "tenant"
)

// IsValid checks if the party type is known
func (t Type) IsValid() bool {
	return t == TypeOwner || t == TypeTenant
}

// Project groups units at one site
type Project struct {
	ID       int64
	Name     string
	Location string
}

// Owner holds title to one or more units
type Owner struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Tenant occupies units under a lease
type Tenant struct {
	ID          int64
	CompanyName string
	ContactName string
	Email       string
}

// UnitAssignment links an owner or tenant to a unit outside of a lease
type UnitAssignment struct {
	ID         int64
	UnitID     int64
	PartyType  Type
	PartyID    int64
	AssignedAt time.Time
}

// Repository checks party existence
type Repository interface {
	// Exists reports whether the party row is present
	Exists(ctx context.Context, partyType Type, id int64) (bool, error)
}

// AssignmentRepository persists unit assignments
type AssignmentRepository interface {
	// Create inserts the assignment; an existing identical assignment is kept
	Create(ctx context.Context, a *UnitAssignment) error
	// Delete removes the assignment and reports whether a row was removed
	Delete(ctx context.Context, unitID int64, partyType Type, partyID int64) (bool, error)
	// CountByUnit counts assignments of any party type on the unit
	CountByUnit(ctx context.Context, unitID int64) (int64, error)
	// ListByUnit returns the unit's assignments, oldest first
	ListByUnit(ctx context.Context, unitID int64) ([]UnitAssignment, error)
}
