package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	occupancyapp "github.com/saifghl/lms/internal/application/occupancy"
	"github.com/saifghl/lms/internal/domain/party"
)

// AssignmentService manages unit occupancy outside of leases
type AssignmentService interface {
	Assign(ctx context.Context, unitID int64, partyType party.Type, partyID int64) (*occupancyapp.AssignmentResponse, error)
	Unassign(ctx context.Context, unitID int64, partyType party.Type, partyID int64) error
	ListAssignments(ctx context.Context, unitID int64) ([]occupancyapp.AssignmentResponse, error)
	ListUnits(ctx context.Context, req occupancyapp.ListUnitsRequest) ([]occupancyapp.UnitResponse, error)
}

// UnitHandler handles unit listing and owner/tenant assignment
type UnitHandler struct {
	BaseHandler
	occupancy AssignmentService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(occupancy AssignmentService) *UnitHandler {
	return &UnitHandler{occupancy: occupancy}
}

// List returns units with their occupancy status.
func (h *UnitHandler) List(c *gin.Context) {
	var req occupancyapp.ListUnitsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	units, err := h.occupancy.ListUnits(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, units, len(units))
}

// Assignments lists the owners and tenants assigned to a unit.
func (h *UnitHandler) Assignments(c *gin.Context) {
	unitID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.occupancy.ListAssignments(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, list, len(list))
}

// AssignOwner assigns an owner to a unit and marks it occupied.
func (h *UnitHandler) AssignOwner(c *gin.Context) {
	unitID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req occupancyapp.AssignOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.assign(c, unitID, party.TypeOwner, req.OwnerID)
}

// AssignTenant assigns a tenant to a unit and marks it occupied.
func (h *UnitHandler) AssignTenant(c *gin.Context) {
	unitID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req occupancyapp.AssignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.assign(c, unitID, party.TypeTenant, req.TenantID)
}

func (h *UnitHandler) assign(c *gin.Context, unitID int64, partyType party.Type, partyID int64) {
	resp, err := h.occupancy.Assign(c.Request.Context(), unitID, partyType, partyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveOwner removes an owner from a unit.
func (h *UnitHandler) RemoveOwner(c *gin.Context) {
	h.unassign(c, party.TypeOwner, "ownerId")
}

// RemoveTenant removes a tenant from a unit.
func (h *UnitHandler) RemoveTenant(c *gin.Context) {
	h.unassign(c, party.TypeTenant, "tenantId")
}

func (h *UnitHandler) unassign(c *gin.Context, partyType party.Type, param string) {
	unitID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	partyID, ok := h.pathID(c, param)
	if !ok {
		return
	}
	if err := h.occupancy.Unassign(c.Request.Context(), unitID, partyType, partyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
