package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartyRepository implements party.Repository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// Exists reports whether the owner or tenant row is present
func (r *GormPartyRepository) Exists(ctx context.Context, partyType party.Type, id int64) (bool, error) {
	var model any
	switch partyType {
	case party.TypeOwner:
		model = &models.OwnerModel{}
	case party.TypeTenant:
		model = &models.TenantModel{}
	default:
		return false, fmt.Errorf("unknown party type %q", partyType)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormAssignmentRepository implements party.AssignmentRepository using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create inserts the assignment. An identical assignment already present is
// kept and its id copied onto a.
func (r *GormAssignmentRepository) Create(ctx context.Context, a *party.UnitAssignment) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	model := models.UnitAssignmentModelFromDomain(a)
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return err
	}
	if model.ID == 0 {
		var existing models.UnitAssignmentModel
		if err := db.Where("unit_id = ? AND party_type = ? AND party_id = ?", a.UnitID, string(a.PartyType), a.PartyID).
			First(&existing).Error; err != nil {
			return err
		}
		model = &existing
	}
	a.ID = model.ID
	a.AssignedAt = model.AssignedAt
	return nil
}

// Delete removes the assignment and reports whether a row was removed
func (r *GormAssignmentRepository) Delete(ctx context.Context, unitID int64, partyType party.Type, partyID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("unit_id = ? AND party_type = ? AND party_id = ?", unitID, string(partyType), partyID).
		Delete(&models.UnitAssignmentModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByUnit counts assignments of any party type on the unit
func (r *GormAssignmentRepository) CountByUnit(ctx context.Context, unitID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UnitAssignmentModel{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error
	return count, err
}

// ListByUnit returns the unit's assignments, oldest first
func (r *GormAssignmentRepository) ListByUnit(ctx context.Context, unitID int64) ([]party.UnitAssignment, error) {
	var rows []models.UnitAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("assigned_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]party.UnitAssignment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ party.Repository           = (*GormPartyRepository)(nil)
	_ party.AssignmentRepository = (*GormAssignmentRepository)(nil)
)
