package lease

import (
	"context"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/unit"
)

// TransactionScope provides transactional access to the lease write stores.
// Everything done through the repositories handed to fn commits or rolls
// back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the stores the coordinator writes through.
// All of them share the same underlying transaction.
type TransactionalRepositories interface {
	Leases() lease.LeaseRepository
	Escalations() lease.EscalationRepository
	Occupancy() unit.OccupancySynchronizer
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests where atomicity is not under test.
type NoOpTransactionScope struct {
	leases      lease.LeaseRepository
	escalations lease.EscalationRepository
	occupancy   unit.OccupancySynchronizer
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	leases lease.LeaseRepository,
	escalations lease.EscalationRepository,
	occupancy unit.OccupancySynchronizer,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{leases: leases, escalations: escalations, occupancy: occupancy}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Leases returns the lease repository
func (s *NoOpTransactionScope) Leases() lease.LeaseRepository { return s.leases }

// Escalations returns the escalation repository
func (s *NoOpTransactionScope) Escalations() lease.EscalationRepository { return s.escalations }

// Occupancy returns the occupancy synchronizer
func (s *NoOpTransactionScope) Occupancy() unit.OccupancySynchronizer { return s.occupancy }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
