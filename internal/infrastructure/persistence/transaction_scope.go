package persistence

import (
	"context"

	applease "github.com/saifghl/lms/internal/application/lease"
	appoccupancy "github.com/saifghl/lms/internal/application/occupancy"
	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/unit"
	"gorm.io/gorm"
)

// GormLeaseTransactionScope implements the lease coordinator's TransactionScope
// using GORM transactions.
type GormLeaseTransactionScope struct {
	db *gorm.DB
}

// NewGormLeaseTransactionScope creates a new GormLeaseTransactionScope.
func NewGormLeaseTransactionScope(db *gorm.DB) *GormLeaseTransactionScope {
	return &GormLeaseTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The connection is returned
// to the pool on commit, rollback or panic.
func (s *GormLeaseTransactionScope) Execute(ctx context.Context, fn func(repos applease.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormOccupancyTransactionScope implements the assignment service's
// TransactionScope using GORM transactions.
type GormOccupancyTransactionScope struct {
	db *gorm.DB
}

// NewGormOccupancyTransactionScope creates a new GormOccupancyTransactionScope.
func NewGormOccupancyTransactionScope(db *gorm.DB) *GormOccupancyTransactionScope {
	return &GormOccupancyTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormOccupancyTransactionScope) Execute(ctx context.Context, fn func(repos appoccupancy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Leases returns the lease repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Leases() lease.LeaseRepository {
	return NewGormLeaseRepository(r.tx)
}

// Escalations returns the escalation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Escalations() lease.EscalationRepository {
	return NewGormEscalationRepository(r.tx)
}

// Occupancy returns the occupancy synchronizer scoped to the current transaction.
func (r *gormTransactionalRepositories) Occupancy() unit.OccupancySynchronizer {
	return NewGormUnitRepository(r.tx)
}

// Assignments returns the assignment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Assignments() party.AssignmentRepository {
	return NewGormAssignmentRepository(r.tx)
}

var (
	_ applease.TransactionScope              = (*GormLeaseTransactionScope)(nil)
	_ applease.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ appoccupancy.TransactionScope          = (*GormOccupancyTransactionScope)(nil)
	_ appoccupancy.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
