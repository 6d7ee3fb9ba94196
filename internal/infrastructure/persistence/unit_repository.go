package persistence

import (
	"context"
	"time"

	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/saifghl/lms/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormUnitRepository implements unit.Repository and unit.OccupancySynchronizer
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

type unitRow struct {
	ID          int64
	ProjectID   int64
	ProjectName *string
	UnitNumber  string
	Floor       string
	AreaSqft    decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (row unitRow) toDomain() unit.Unit {
	return unit.Unit{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		ProjectName: deref(row.ProjectName),
		UnitNumber:  row.UnitNumber,
		Floor:       row.Floor,
		AreaSqft:    row.AreaSqft,
		Status:      unit.OccupancyStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *GormUnitRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("units AS u").
		Select("u.id, u.project_id, p.name AS project_name, u.unit_number, u.floor, u.area_sqft, u.status, u.created_at, u.updated_at").
		Joins("LEFT JOIN projects p ON p.id = u.project_id")
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id int64) (*unit.Unit, error) {
	var rows []unitRow
	if err := r.baseQuery(ctx).Where("u.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("unit", id)
	}
	u := rows[0].toDomain()
	return &u, nil
}

// List returns units matching the filter ordered by unit number
func (r *GormUnitRepository) List(ctx context.Context, filter unit.Filter) ([]unit.Unit, error) {
	query := r.baseQuery(ctx)
	if filter.ProjectID != nil {
		query = query.Where("u.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("u.status = ?", string(filter.Status))
	}

	var rows []unitRow
	if err := query.Order(ValidateSortField(filter.SortBy, UnitSortFields, "u.unit_number") + " ASC").Order("u.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	units := make([]unit.Unit, len(rows))
	for i, row := range rows {
		units[i] = row.toDomain()
	}
	return units, nil
}

// MarkOccupied sets the unit's status to occupied. Repeating the call is a no-op.
func (r *GormUnitRepository) MarkOccupied(ctx context.Context, unitID int64) error {
	return r.setStatus(ctx, unitID, unit.StatusOccupied)
}

// MarkVacant sets the unit's status to vacant. Repeating the call is a no-op.
func (r *GormUnitRepository) MarkVacant(ctx context.Context, unitID int64) error {
	return r.setStatus(ctx, unitID, unit.StatusVacant)
}

// setStatus matches the row by id alone so RowsAffected is 1 even when the
// status already holds the target value.
func (r *GormUnitRepository) setStatus(ctx context.Context, unitID int64, status unit.OccupancyStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Where("id = ?", unitID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("unit", unitID)
	}
	return nil
}

var (
	_ unit.Repository            = (*GormUnitRepository)(nil)
	_ unit.OccupancySynchronizer = (*GormUnitRepository)(nil)
)
