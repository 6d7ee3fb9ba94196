package models

import (
	"time"

	"github.com/saifghl/lms/internal/domain/party"
)

// ProjectModel is the persistence model for a project (site).
type ProjectModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Location string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// OwnerModel is the persistence model for a unit owner.
type OwnerModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200)"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// TenantModel is the persistence model for a tenant company.
type TenantModel struct {
	BaseModel
	CompanyName string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(200)"`
	Email       string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// UnitAssignmentModel links an owner or tenant to a unit.
type UnitAssignmentModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UnitID     int64     `gorm:"not null;uniqueIndex:idx_unit_assignments_party,priority:1"`
	PartyType  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_unit_assignments_party,priority:2"`
	PartyID    int64     `gorm:"not null;uniqueIndex:idx_unit_assignments_party,priority:3"`
	AssignedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UnitAssignmentModel) TableName() string {
	return "unit_assignments"
}

// ToDomain converts the persistence model to a domain UnitAssignment.
func (m *UnitAssignmentModel) ToDomain() party.UnitAssignment {
	return party.UnitAssignment{
		ID:         m.ID,
		UnitID:     m.UnitID,
		PartyType:  party.Type(m.PartyType),
		PartyID:    m.PartyID,
		AssignedAt: m.AssignedAt,
	}
}

// UnitAssignmentModelFromDomain creates a persistence model from a domain UnitAssignment.
func UnitAssignmentModelFromDomain(a *party.UnitAssignment) *UnitAssignmentModel {
	return &UnitAssignmentModel{
		ID:         a.ID,
		UnitID:     a.UnitID,
		PartyType:  string(a.PartyType),
		PartyID:    a.PartyID,
		AssignedAt: a.AssignedAt,
	}
}
