package report

import (
	"context"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/shared"
)

// CacheInvalidator drops cached dashboards whenever lease or occupancy data
// changes
type CacheInvalidator struct {
	service *DashboardService
}

// NewCacheInvalidator creates a new CacheInvalidator
func NewCacheInvalidator(service *DashboardService) *CacheInvalidator {
	return &CacheInvalidator{service: service}
}

// EventTypes returns every lease and assignment write event
func (h *CacheInvalidator) EventTypes() []string {
	return []string{
		lease.EventTypeLeaseCreated,
		lease.EventTypeLeaseUpdated,
		lease.EventTypeLeaseStatusChanged,
		lease.EventTypeLeaseDeleted,
		party.EventTypeUnitAssigned,
		party.EventTypeUnitUnassigned,
	}
}

// Handle invalidates the cache
func (h *CacheInvalidator) Handle(ctx context.Context, _ shared.DomainEvent) error {
	return h.service.Invalidate(ctx)
}

var _ shared.EventHandler = (*CacheInvalidator)(nil)
