package occupancy

import (
	"time"

	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/shopspring/decimal"
)

// AssignOwnerRequest links an owner to a unit
type AssignOwnerRequest struct {
	OwnerID int64 `json:"owner_id" binding:"required,min=1"`
}

// AssignTenantRequest links a tenant to a unit
type AssignTenantRequest struct {
	TenantID int64 `json:"tenant_id" binding:"required,min=1"`
}

// ListUnitsRequest filters the unit listing
type ListUnitsRequest struct {
	ProjectID *int64 `form:"project_id" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,oneof=vacant occupied maintenance"`
	SortBy    string `form:"sort_by"`
}

// AssignmentResponse is a stored unit assignment
type AssignmentResponse struct {
	ID         int64     `json:"id"`
	UnitID     int64     `json:"unit_id"`
	PartyType  string    `json:"party_type"`
	PartyID    int64     `json:"party_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// ToAssignmentResponse converts a domain assignment
func ToAssignmentResponse(a party.UnitAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		UnitID:     a.UnitID,
		PartyType:  string(a.PartyType),
		PartyID:    a.PartyID,
		AssignedAt: a.AssignedAt,
	}
}

// UnitResponse is one unit with its occupancy flag
type UnitResponse struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	ProjectName string          `json:"project_name"`
	UnitNumber  string          `json:"unit_number"`
	Floor       string          `json:"floor"`
	AreaSqft    decimal.Decimal `json:"area_sqft"`
	Status      string          `json:"status"`
}

// ToUnitResponse converts a domain unit
func ToUnitResponse(u unit.Unit) UnitResponse {
	return UnitResponse{
		ID:          u.ID,
		ProjectID:   u.ProjectID,
		ProjectName: u.ProjectName,
		UnitNumber:  u.UnitNumber,
		Floor:       u.Floor,
		AreaSqft:    u.AreaSqft,
		Status:      string(u.Status),
	}
}
