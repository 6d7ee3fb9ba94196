package occupancy

import (
	"context"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/unit"
)

// TransactionScope provides transactional access to the assignment stores
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the stores an assignment change writes
// through, sharing one transaction.
type TransactionalRepositories interface {
	Assignments() party.AssignmentRepository
	Leases() lease.LeaseRepository
	Occupancy() unit.OccupancySynchronizer
}

// NoOpTransactionScope runs fn directly against the given repositories
type NoOpTransactionScope struct {
	assignments party.AssignmentRepository
	leases      lease.LeaseRepository
	occupancy   unit.OccupancySynchronizer
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	assignments party.AssignmentRepository,
	leases lease.LeaseRepository,
	occupancy unit.OccupancySynchronizer,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{assignments: assignments, leases: leases, occupancy: occupancy}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Assignments returns the assignment repository
func (s *NoOpTransactionScope) Assignments() party.AssignmentRepository { return s.assignments }

// Leases returns the lease repository
func (s *NoOpTransactionScope) Leases() lease.LeaseRepository { return s.leases }

// Occupancy returns the occupancy synchronizer
func (s *NoOpTransactionScope) Occupancy() unit.OccupancySynchronizer { return s.occupancy }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
