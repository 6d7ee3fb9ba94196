package persistence

import (
	"context"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/report"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountLeases counts lease rows, optionally only those created before a cutoff
func (r *GormDashboardRepository) CountLeases(ctx context.Context, createdBefore *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaseModel{})
	if createdBefore != nil {
		query = query.Where("created_at < ?", *createdBefore)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountByStatus counts lease rows per stored status
func (r *GormDashboardRepository) CountByStatus(ctx context.Context) (map[lease.Status]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[lease.Status]int64, len(rows))
	for _, row := range rows {
		out[lease.Status(row.Status)] = row.Count
	}
	return out, nil
}

// RentRoll returns leases in commenced statuses without their schedules
func (r *GormDashboardRepository) RentRoll(ctx context.Context) ([]report.RentRollEntry, error) {
	type rentRollRow struct {
		ID          int64
		UnitID      int64
		Status      string
		LeaseStart  time.Time
		LeaseEnd    time.Time
		MonthlyRent decimal.Decimal
		CreatedAt   time.Time
	}
	var rows []rentRollRow
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Select("id, unit_id, status, lease_start, lease_end, monthly_rent, created_at").
		Where("status IN ?", statusStrings(lease.CommencedStatuses)).
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	roll := make([]report.RentRollEntry, len(rows))
	for i, row := range rows {
		roll[i] = report.RentRollEntry{
			LeaseID:     row.ID,
			UnitID:      row.UnitID,
			Status:      lease.Status(row.Status),
			LeaseStart:  shared.DateOnly(row.LeaseStart),
			LeaseEnd:    shared.DateOnly(row.LeaseEnd),
			MonthlyRent: row.MonthlyRent,
			CreatedAt:   row.CreatedAt,
		}
	}
	return roll, nil
}

// LeasesEndingBetween returns commenced leases with lease_end in [from, to]
func (r *GormDashboardRepository) LeasesEndingBetween(ctx context.Context, from, to time.Time) ([]report.ExpiringLease, error) {
	type expiringRow struct {
		LeaseID     int64
		ProjectName *string
		UnitNumber  *string
		TenantName  *string
		LeaseEnd    time.Time
		MonthlyRent decimal.Decimal
	}
	var rows []expiringRow
	if err := r.db.WithContext(ctx).
		Table("leases AS l").
		Select(`l.id AS lease_id, p.name AS project_name, u.unit_number AS unit_number,
			t.company_name AS tenant_name, l.lease_end, l.monthly_rent`).
		Joins("LEFT JOIN projects p ON p.id = l.project_id").
		Joins("LEFT JOIN units u ON u.id = l.unit_id").
		Joins("LEFT JOIN tenants t ON t.id = l.tenant_id").
		Where("l.status IN ?", statusStrings(lease.CommencedStatuses)).
		Where("l.lease_end >= ? AND l.lease_end <= ?", shared.DateOnly(from), shared.DateOnly(to)).
		Order("l.lease_end ASC, l.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.ExpiringLease, len(rows))
	for i, row := range rows {
		out[i] = report.ExpiringLease{
			LeaseID:     row.LeaseID,
			ProjectName: deref(row.ProjectName),
			UnitNumber:  deref(row.UnitNumber),
			TenantName:  deref(row.TenantName),
			LeaseEnd:    shared.DateOnly(row.LeaseEnd),
			MonthlyRent: row.MonthlyRent,
		}
	}
	return out, nil
}

// EscalationsEffectiveBetween returns escalations effective in [from, to]
// whose lease is commenced and still running on from.
func (r *GormDashboardRepository) EscalationsEffectiveBetween(ctx context.Context, from, to time.Time) ([]report.DueEscalation, error) {
	type dueRow struct {
		EscalationID  int64
		LeaseID       int64
		SequenceNo    int
		ProjectName   *string
		UnitNumber    *string
		TenantName    *string
		EffectiveFrom time.Time
		IncreaseType  string
		Value         decimal.Decimal
		MonthlyRent   decimal.Decimal
	}
	from = shared.DateOnly(from)
	var rows []dueRow
	if err := r.db.WithContext(ctx).
		Table("lease_escalations AS e").
		Select(`e.id AS escalation_id, e.lease_id, e.sequence_no,
			p.name AS project_name, u.unit_number AS unit_number, t.company_name AS tenant_name,
			e.effective_from, e.increase_type, e.value, l.monthly_rent`).
		Joins("JOIN leases l ON l.id = e.lease_id").
		Joins("LEFT JOIN projects p ON p.id = l.project_id").
		Joins("LEFT JOIN units u ON u.id = l.unit_id").
		Joins("LEFT JOIN tenants t ON t.id = l.tenant_id").
		Where("l.status IN ? AND l.lease_end >= ?", statusStrings(lease.CommencedStatuses), from).
		Where("e.effective_from >= ? AND e.effective_from <= ?", from, shared.DateOnly(to)).
		Order("e.effective_from ASC, e.lease_id ASC, e.sequence_no ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.DueEscalation, len(rows))
	for i, row := range rows {
		out[i] = report.DueEscalation{
			EscalationID:  row.EscalationID,
			LeaseID:       row.LeaseID,
			SequenceNo:    row.SequenceNo,
			ProjectName:   deref(row.ProjectName),
			UnitNumber:    deref(row.UnitNumber),
			TenantName:    deref(row.TenantName),
			EffectiveFrom: shared.DateOnly(row.EffectiveFrom),
			IncreaseType:  lease.IncreaseType(row.IncreaseType),
			Value:         row.Value,
			MonthlyRent:   row.MonthlyRent,
		}
	}
	return out, nil
}

// UnitOccupancy counts units by status
func (r *GormDashboardRepository) UnitOccupancy(ctx context.Context) (report.Occupancy, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return report.Occupancy{}, err
	}
	var occ report.Occupancy
	for _, row := range rows {
		occ.Total += row.Count
		switch unit.OccupancyStatus(row.Status) {
		case unit.StatusOccupied:
			occ.Occupied += row.Count
		case unit.StatusVacant:
			occ.Vacant += row.Count
		case unit.StatusMaintenance:
			occ.Maintenance += row.Count
		}
	}
	return occ, nil
}

// Ensure GormDashboardRepository implements report.DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
