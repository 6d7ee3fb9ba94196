package lease

import "context"

// LeaseRepository is the Lease Record Store
type LeaseRepository interface {
	// FindByID loads the lease row without its schedule.
	// Returns shared.ErrNotFound when it does not exist.
	FindByID(ctx context.Context, id int64) (*Lease, error)

	// Create inserts the lease row and assigns l.ID
	Create(ctx context.Context, l *Lease) error

	// UpdateFields writes only the named columns of l
	UpdateFields(ctx context.Context, l *Lease, fields []string) error

	// UpdateStatus persists l.Status
	UpdateStatus(ctx context.Context, l *Lease) error

	// Delete removes the lease row
	Delete(ctx context.Context, id int64) error

	// CountLiveByUnit counts leases on the unit that are neither terminated
	// nor rejected, excluding excludeID.
	CountLiveByUnit(ctx context.Context, unitID, excludeID int64) (int64, error)
}

// EscalationRepository is the Escalation Schedule Store
type EscalationRepository interface {
	// ReplaceSchedule deletes the lease's schedule and inserts events
	// renumbered 1..N in slice order. An empty slice leaves no rows.
	ReplaceSchedule(ctx context.Context, leaseID int64, events []EscalationEvent) ([]EscalationEvent, error)

	// GetSchedule returns the lease's events ordered by sequence number
	GetSchedule(ctx context.Context, leaseID int64) ([]EscalationEvent, error)

	// GetSchedules returns schedules for many leases keyed by lease id
	GetSchedules(ctx context.Context, leaseIDs []int64) (map[int64][]EscalationEvent, error)
}

// QueryRepository serves the joined read models
type QueryRepository interface {
	// GetView returns the lease with party display names. Escalations and
	// derived fields are filled by the caller.
	GetView(ctx context.Context, id int64) (*View, error)

	// List returns lease summaries matching the filter, newest first
	List(ctx context.Context, filter ListFilter) ([]Summary, error)
}
