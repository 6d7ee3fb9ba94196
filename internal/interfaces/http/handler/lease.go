package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	leaseapp "github.com/saifghl/lms/internal/application/lease"
)

// LeaseService is the lease coordinator as seen by the HTTP layer
type LeaseService interface {
	Create(ctx context.Context, req leaseapp.CreateLeaseRequest) (*leaseapp.CreateLeaseResponse, error)
	Update(ctx context.Context, id int64, req leaseapp.UpdateLeaseRequest) error
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Terminate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*leaseapp.LeaseResponse, error)
	List(ctx context.Context, req leaseapp.ListLeasesRequest) ([]leaseapp.LeaseListItemResponse, error)
	GetSchedule(ctx context.Context, id int64) ([]leaseapp.EscalationResponse, error)
}

// LeaseHandler handles lease API endpoints
type LeaseHandler struct {
	BaseHandler
	leases LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leases LeaseService) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

// Create stores a draft lease with its escalation schedule.
func (h *LeaseHandler) Create(c *gin.Context) {
	var req leaseapp.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.leases.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns leases filtered by status, project or search text.
func (h *LeaseHandler) List(c *gin.Context) {
	var req leaseapp.ListLeasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	items, err := h.leases.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Get returns a lease with its parties and escalation schedule.
func (h *LeaseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.leases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update applies a sparse update. Escalations, when present, replace the schedule.
func (h *LeaseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req leaseapp.UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.leases.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"lease_id": id})
}

// Approve moves a draft lease to approved.
func (h *LeaseHandler) Approve(c *gin.Context) {
	h.transition(c, h.leases.Approve)
}

// Reject moves a draft lease to rejected.
func (h *LeaseHandler) Reject(c *gin.Context) {
	h.transition(c, h.leases.Reject)
}

// Terminate ends a lease, vacating its unit when nothing else holds it.
func (h *LeaseHandler) Terminate(c *gin.Context) {
	h.transition(c, h.leases.Terminate)
}

func (h *LeaseHandler) transition(c *gin.Context, apply func(context.Context, int64) error) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := apply(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.leases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a lease and its schedule.
func (h *LeaseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.leases.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Schedule lists a lease's escalations in sequence order.
func (h *LeaseHandler) Schedule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	events, err := h.leases.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, events, len(events))
}
