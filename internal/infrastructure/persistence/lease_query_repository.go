package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLeaseQueryRepository serves the joined lease read models
type GormLeaseQueryRepository struct {
	db *gorm.DB
}

// NewGormLeaseQueryRepository creates a new GormLeaseQueryRepository
func NewGormLeaseQueryRepository(db *gorm.DB) *GormLeaseQueryRepository {
	return &GormLeaseQueryRepository{db: db}
}

type leaseViewRow struct {
	models.LeaseModel
	ProjectName   *string
	UnitNumber    *string
	TenantName    *string
	OwnerName     *string
	SubTenantName *string
}

// GetView returns the lease joined with the display names of its parties
func (r *GormLeaseQueryRepository) GetView(ctx context.Context, id int64) (*lease.View, error) {
	var rows []leaseViewRow
	err := r.db.WithContext(ctx).
		Table("leases AS l").
		Select(`l.*,
			p.name AS project_name,
			u.unit_number AS unit_number,
			t.company_name AS tenant_name,
			o.name AS owner_name,
			st.company_name AS sub_tenant_name`).
		Joins("LEFT JOIN projects p ON p.id = l.project_id").
		Joins("LEFT JOIN units u ON u.id = l.unit_id").
		Joins("LEFT JOIN tenants t ON t.id = l.tenant_id").
		Joins("LEFT JOIN owners o ON o.id = l.owner_id").
		Joins("LEFT JOIN tenants st ON st.id = l.sub_tenant_id").
		Where("l.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("lease", id)
	}

	row := rows[0]
	return &lease.View{
		Lease:         *row.LeaseModel.ToDomain(),
		ProjectName:   deref(row.ProjectName),
		UnitNumber:    deref(row.UnitNumber),
		TenantName:    deref(row.TenantName),
		OwnerName:     deref(row.OwnerName),
		SubTenantName: deref(row.SubTenantName),
	}, nil
}

type leaseSummaryRow struct {
	ID          int64
	ProjectID   int64
	ProjectName *string
	UnitID      int64
	UnitNumber  *string
	TenantID    int64
	TenantName  *string
	LeaseType   string
	LeaseStart  time.Time
	LeaseEnd    time.Time
	MonthlyRent decimal.Decimal
	Status      string
}

// List returns lease summaries matching the filter. The derived statuses
// active and expired are evaluated against filter.Today.
func (r *GormLeaseQueryRepository) List(ctx context.Context, filter lease.ListFilter) ([]lease.Summary, error) {
	today := shared.DateOnly(filter.Today)

	query := r.db.WithContext(ctx).
		Table("leases AS l").
		Select(`l.id, l.project_id, p.name AS project_name,
			l.unit_id, u.unit_number AS unit_number,
			l.tenant_id, t.company_name AS tenant_name,
			l.lease_type, l.lease_start, l.lease_end, l.monthly_rent, l.status`).
		Joins("LEFT JOIN projects p ON p.id = l.project_id").
		Joins("LEFT JOIN units u ON u.id = l.unit_id").
		Joins("LEFT JOIN tenants t ON t.id = l.tenant_id")

	switch filter.Status {
	case "":
	case lease.StatusActive:
		query = query.Where("l.status IN ? AND l.lease_end >= ?", statusStrings(lease.CommencedStatuses), today)
	case lease.StatusExpired:
		query = query.Where("l.status IN ? AND l.lease_end < ?", statusStrings(lease.CommencedStatuses), today)
	default:
		query = query.Where("l.status = ?", string(filter.Status))
	}
	if filter.ProjectID != nil {
		query = query.Where("l.project_id = ?", *filter.ProjectID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(t.company_name) LIKE ? OR LOWER(u.unit_number) LIKE ? OR LOWER(p.name) LIKE ?",
			like, like, like,
		)
	}

	sortBy := ValidateSortField(filter.SortBy, LeaseSortFields, "l.created_at")
	query = query.Order(sortBy + " " + ValidateSortOrder(filter.SortOrder)).Order("l.id DESC")

	var rows []leaseSummaryRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]lease.Summary, len(rows))
	for i, row := range rows {
		status := lease.Status(row.Status)
		summaries[i] = lease.Summary{
			ID:              row.ID,
			ProjectID:       row.ProjectID,
			ProjectName:     deref(row.ProjectName),
			UnitID:          row.UnitID,
			UnitNumber:      deref(row.UnitNumber),
			TenantID:        row.TenantID,
			TenantName:      deref(row.TenantName),
			LeaseType:       lease.LeaseType(row.LeaseType),
			LeaseStart:      shared.DateOnly(row.LeaseStart),
			LeaseEnd:        shared.DateOnly(row.LeaseEnd),
			MonthlyRent:     row.MonthlyRent,
			Status:          status,
			EffectiveStatus: lease.EffectiveStatus(status, shared.DateOnly(row.LeaseEnd), today),
		}
	}
	return summaries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ensure GormLeaseQueryRepository implements lease.QueryRepository
var _ lease.QueryRepository = (*GormLeaseQueryRepository)(nil)
