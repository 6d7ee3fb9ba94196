package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeaseRepository implements lease.LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by its ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id int64) (*lease.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("lease", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the lease row and copies the generated id back onto l
func (r *GormLeaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	model := models.LeaseModelFromDomain(l)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateFields writes only the named columns plus updated_at
func (r *GormLeaseRepository) UpdateFields(ctx context.Context, l *lease.Lease, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	l.UpdatedAt = time.Now()
	model := models.LeaseModelFromDomain(l)

	columns := make([]string, 0, len(fields)+1)
	columns = append(columns, fields...)
	columns = append(columns, "updated_at")

	result := r.db.WithContext(ctx).Model(model).Select(columns).Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("lease", l.ID)
	}
	return nil
}

// UpdateStatus persists the lease's status
func (r *GormLeaseRepository) UpdateStatus(ctx context.Context, l *lease.Lease) error {
	result := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"status":     string(l.Status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("lease", l.ID)
	}
	return nil
}

// Delete removes the lease row
func (r *GormLeaseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.LeaseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("lease", id)
	}
	return nil
}

// CountLiveByUnit counts leases on the unit that still hold it
func (r *GormLeaseRepository) CountLiveByUnit(ctx context.Context, unitID, excludeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("unit_id = ? AND id <> ?", unitID, excludeID).
		Where("status IN ?", statusStrings(lease.LiveStatuses)).
		Count(&count).Error
	return count, err
}

func statusStrings(statuses []lease.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Ensure GormLeaseRepository implements lease.LeaseRepository
var _ lease.LeaseRepository = (*GormLeaseRepository)(nil)
