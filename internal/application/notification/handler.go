package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/notification"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Notification types written to the notifications table
const (
	TypeLeaseCreated  = "lease_created"
	TypeLeaseUpdated  = "lease_updated"
	TypeLeaseApproved = "lease_approved"
	TypeLeaseRejected = "lease_rejected"
	TypeLeaseEnded    = "lease_terminated"
	TypeLeaseDeleted  = "lease_deleted"
)

// LeaseEventHandler turns lease lifecycle events into dashboard notifications
type LeaseEventHandler struct {
	repo         notification.Repository
	capabilities shared.Capabilities
}

// NewLeaseEventHandler creates a new LeaseEventHandler
func NewLeaseEventHandler(repo notification.Repository, capabilities shared.Capabilities) *LeaseEventHandler {
	return &LeaseEventHandler{repo: repo, capabilities: capabilities}
}

// EventTypes returns the lease events that produce a notification
func (h *LeaseEventHandler) EventTypes() []string {
	return []string{
		lease.EventTypeLeaseCreated,
		lease.EventTypeLeaseUpdated,
		lease.EventTypeLeaseStatusChanged,
		lease.EventTypeLeaseDeleted,
	}
}

// Handle stores one notification for the event. Without the notifications
// table the event is skipped.
func (h *LeaseEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.capabilities.Has(shared.TableNotifications) {
		logger.L(ctx).Warn("Notifications table missing, skipping notification",
			zap.String("table", shared.TableNotifications),
			zap.String("event_type", event.EventType()),
			zap.Int64("lease_id", event.AggregateID()),
		)
		return nil
	}

	n, ok := fromEvent(event)
	if !ok {
		return nil
	}
	if err := h.repo.Create(ctx, n); err != nil {
		return shared.NewPersistenceError("insert notification", err)
	}
	return nil
}

func fromEvent(event shared.DomainEvent) (*notification.Notification, bool) {
	id := event.AggregateID()
	leaseID := &id

	switch e := event.(type) {
	case *lease.LeaseCreatedEvent:
		return &notification.Notification{
			Type:    TypeLeaseCreated,
			Title:   "New lease created",
			Message: fmt.Sprintf("Lease #%d was created for unit #%d", e.LeaseID, e.UnitID),
			LeaseID: leaseID,
		}, true
	case *lease.LeaseUpdatedEvent:
		msg := fmt.Sprintf("Lease #%d was updated", e.LeaseID)
		if len(e.Fields) > 0 {
			msg += ": " + strings.Join(e.Fields, ", ")
		}
		if e.EscalationsReplaced {
			msg += " (escalation schedule replaced)"
		}
		return &notification.Notification{
			Type:    TypeLeaseUpdated,
			Title:   "Lease updated",
			Message: msg,
			LeaseID: leaseID,
		}, true
	case *lease.LeaseStatusChangedEvent:
		n := &notification.Notification{
			Message: fmt.Sprintf("Lease #%d moved from %s to %s", e.LeaseID, e.From, e.To),
			LeaseID: leaseID,
		}
		switch e.To {
		case lease.StatusApproved:
			n.Type, n.Title = TypeLeaseApproved, "Lease approved"
		case lease.StatusRejected:
			n.Type, n.Title = TypeLeaseRejected, "Lease rejected"
		case lease.StatusTerminated:
			n.Type, n.Title = TypeLeaseEnded, "Lease terminated"
		default:
			return nil, false
		}
		return n, true
	case *lease.LeaseDeletedEvent:
		// the lease row is gone, so the notification is not linked to it
		return &notification.Notification{
			Type:    TypeLeaseDeleted,
			Title:   "Lease deleted",
			Message: fmt.Sprintf("Lease #%d on unit #%d was deleted", e.LeaseID, e.UnitID),
		}, true
	}
	return nil, false
}

var _ shared.EventHandler = (*LeaseEventHandler)(nil)
