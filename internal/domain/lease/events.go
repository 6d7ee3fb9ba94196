package lease

import "github.com/saifghl/lms/internal/domain/shared"

// AggregateTypeLease is the aggregate type for lease events
const AggregateTypeLease = "Lease"

// Event type constants
const (
	EventTypeLeaseCreated       = "LeaseCreated"
	EventTypeLeaseUpdated       = "LeaseUpdated"
	EventTypeLeaseStatusChanged = "LeaseStatusChanged"
	EventTypeLeaseDeleted       = "LeaseDeleted"
)

// LeaseCreatedEvent is raised after a lease and its schedule are committed
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	LeaseID         int64 `json:"lease_id"`
	UnitID          int64 `json:"unit_id"`
	TenantID        int64 `json:"tenant_id"`
	EscalationCount int   `json:"escalation_count"`
}

// NewLeaseCreatedEvent creates a LeaseCreatedEvent
func NewLeaseCreatedEvent(l *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseCreated, AggregateTypeLease, l.ID),
		LeaseID:         l.ID,
		UnitID:          l.UnitID,
		TenantID:        l.TenantID,
		EscalationCount: len(l.Escalations),
	}
}

// LeaseUpdatedEvent is raised after a sparse update commits
type LeaseUpdatedEvent struct {
	shared.BaseDomainEvent
	LeaseID             int64    `json:"lease_id"`
	Fields              []string `json:"fields"`
	EscalationsReplaced bool     `json:"escalations_replaced"`
}

// NewLeaseUpdatedEvent creates a LeaseUpdatedEvent
func NewLeaseUpdatedEvent(leaseID int64, fields []string, escalationsReplaced bool) *LeaseUpdatedEvent {
	return &LeaseUpdatedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeLeaseUpdated, AggregateTypeLease, leaseID),
		LeaseID:             leaseID,
		Fields:              fields,
		EscalationsReplaced: escalationsReplaced,
	}
}

// LeaseStatusChangedEvent is raised by approve, reject and terminate
type LeaseStatusChangedEvent struct {
	shared.BaseDomainEvent
	LeaseID int64  `json:"lease_id"`
	UnitID  int64  `json:"unit_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

// NewLeaseStatusChangedEvent creates a LeaseStatusChangedEvent
func NewLeaseStatusChangedEvent(l *Lease, from Status) *LeaseStatusChangedEvent {
	return &LeaseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseStatusChanged, AggregateTypeLease, l.ID),
		LeaseID:         l.ID,
		UnitID:          l.UnitID,
		From:            from,
		To:              l.Status,
	}
}

// LeaseDeletedEvent is raised after a lease and its schedule are removed
type LeaseDeletedEvent struct {
	shared.BaseDomainEvent
	LeaseID int64 `json:"lease_id"`
	UnitID  int64 `json:"unit_id"`
}

// NewLeaseDeletedEvent creates a LeaseDeletedEvent
func NewLeaseDeletedEvent(l *Lease) *LeaseDeletedEvent {
	return &LeaseDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseDeleted, AggregateTypeLease, l.ID),
		LeaseID:         l.ID,
		UnitID:          l.UnitID,
	}
}
