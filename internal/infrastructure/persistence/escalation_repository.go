package persistence

import (
	"context"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEscalationRepository implements lease.EscalationRepository using GORM
type GormEscalationRepository struct {
	db *gorm.DB
}

// NewGormEscalationRepository creates a new GormEscalationRepository
func NewGormEscalationRepository(db *gorm.DB) *GormEscalationRepository {
	return &GormEscalationRepository{db: db}
}

// ReplaceSchedule deletes every escalation of the lease and inserts events
// numbered 1..N in slice order. Callers run it inside a transaction so the
// old schedule is never observed half-replaced.
func (r *GormEscalationRepository) ReplaceSchedule(ctx context.Context, leaseID int64, events []lease.EscalationEvent) ([]lease.EscalationEvent, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("lease_id = ?", leaseID).Delete(&models.LeaseEscalationModel{}).Error; err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []lease.EscalationEvent{}, nil
	}

	schedule := lease.Resequence(leaseID, events)
	now := time.Now()
	rows := make([]*models.LeaseEscalationModel, len(schedule))
	for i := range schedule {
		schedule[i].CreatedAt = now
		rows[i] = models.LeaseEscalationModelFromDomain(schedule[i])
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}
	for i, row := range rows {
		schedule[i].ID = row.ID
	}
	return schedule, nil
}

// GetSchedule returns the lease's events ordered by sequence number
func (r *GormEscalationRepository) GetSchedule(ctx context.Context, leaseID int64) ([]lease.EscalationEvent, error) {
	var rows []models.LeaseEscalationModel
	if err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("sequence_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]lease.EscalationEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

// GetSchedules returns the schedules of many leases keyed by lease id
func (r *GormEscalationRepository) GetSchedules(ctx context.Context, leaseIDs []int64) (map[int64][]lease.EscalationEvent, error) {
	out := make(map[int64][]lease.EscalationEvent, len(leaseIDs))
	if len(leaseIDs) == 0 {
		return out, nil
	}
	var rows []models.LeaseEscalationModel
	if err := r.db.WithContext(ctx).
		Where("lease_id IN ?", leaseIDs).
		Order("lease_id ASC, sequence_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].LeaseID] = append(out[rows[i].LeaseID], rows[i].ToDomain())
	}
	return out, nil
}

// Ensure GormEscalationRepository implements lease.EscalationRepository
var _ lease.EscalationRepository = (*GormEscalationRepository)(nil)
