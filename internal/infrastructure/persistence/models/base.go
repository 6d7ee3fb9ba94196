package models

import (
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AllModels lists every model in dependency order for AutoMigrate in tests
// and local sqlite runs.
func AllModels() []any {
	return []any{
		&ProjectModel{},
		&OwnerModel{},
		&TenantModel{},
		&UnitModel{},
		&LeaseModel{},
		&LeaseEscalationModel{},
		&UnitAssignmentModel{},
		&NotificationModel{},
	}
}
