package unit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OccupancyStatus is a unit's occupancy flag
type OccupancyStatus string

const (
	StatusVacant      OccupancyStatus = "vacant"
	StatusOccupied    OccupancyStatus = "occupied"
	StatusMaintenance OccupancyStatus = "maintenance"
)

// IsValid checks if the status is known
func (s OccupancyStatus) IsValid() bool {
	switch s {
	case StatusVacant, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// Unit is a leasable space inside a project. Only Status is written by the
// lease engine.
type Unit struct {
	ID          int64
	ProjectID   int64
	UnitNumber  string
	Floor       string
	AreaSqft    decimal.Decimal
	Status      OccupancyStatus
	ProjectName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelongsTo reports whether the unit is part of the project
func (u *Unit) BelongsTo(projectID int64) bool {
	return u.ProjectID == projectID
}

// Filter narrows the unit listing
type Filter struct {
	ProjectID *int64
	Status    OccupancyStatus
	SortBy    string
}

// Repository reads units
type Repository interface {
	// FindByID returns shared.ErrNotFound when the unit does not exist
	FindByID(ctx context.Context, id int64) (*Unit, error)
	List(ctx context.Context, filter Filter) ([]Unit, error)
}

// OccupancySynchronizer is the single writer of lease-driven occupancy.
// Both operations are idempotent: repeating a call leaves the same state.
type OccupancySynchronizer interface {
	MarkOccupied(ctx context.Context, unitID int64) error
	MarkVacant(ctx context.Context, unitID int64) error
}
