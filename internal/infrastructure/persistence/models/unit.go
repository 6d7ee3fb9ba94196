package models

import (
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/shopspring/decimal"
)

// UnitModel is the persistence model for a leasable unit.
type UnitModel struct {
	BaseModel
	ProjectID  int64           `gorm:"not null;uniqueIndex:idx_units_project_number,priority:1"`
	UnitNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_units_project_number,priority:2"`
	Floor      string          `gorm:"type:varchar(20)"`
	AreaSqft   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status     string          `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit.
func (m *UnitModel) ToDomain() *unit.Unit {
	return &unit.Unit{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		UnitNumber: m.UnitNumber,
		Floor:      m.Floor,
		AreaSqft:   m.AreaSqft,
		Status:     unit.OccupancyStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
