package lease

import (
	"context"
	"sync"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/stretchr/testify/mock"
)

// MockLeaseRepository is a mock implementation of lease.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id int64) (*lease.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lease.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeaseRepository) UpdateFields(ctx context.Context, l *lease.Lease, fields []string) error {
	args := m.Called(ctx, l, fields)
	return args.Error(0)
}

func (m *MockLeaseRepository) UpdateStatus(ctx context.Context, l *lease.Lease) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeaseRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeaseRepository) CountLiveByUnit(ctx context.Context, unitID, excludeID int64) (int64, error) {
	args := m.Called(ctx, unitID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEscalationRepository is a mock implementation of lease.EscalationRepository
type MockEscalationRepository struct {
	mock.Mock
}

func (m *MockEscalationRepository) ReplaceSchedule(ctx context.Context, leaseID int64, events []lease.EscalationEvent) ([]lease.EscalationEvent, error) {
	args := m.Called(ctx, leaseID, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lease.EscalationEvent), args.Error(1)
}

func (m *MockEscalationRepository) GetSchedule(ctx context.Context, leaseID int64) ([]lease.EscalationEvent, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lease.EscalationEvent), args.Error(1)
}

func (m *MockEscalationRepository) GetSchedules(ctx context.Context, leaseIDs []int64) (map[int64][]lease.EscalationEvent, error) {
	args := m.Called(ctx, leaseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]lease.EscalationEvent), args.Error(1)
}

// MockQueryRepository is a mock implementation of lease.QueryRepository
type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) GetView(ctx context.Context, id int64) (*lease.View, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lease.View), args.Error(1)
}

func (m *MockQueryRepository) List(ctx context.Context, filter lease.ListFilter) ([]lease.Summary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lease.Summary), args.Error(1)
}

// MockUnitRepository is a mock implementation of unit.Repository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id int64) (*unit.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unit.Unit), args.Error(1)
}

func (m *MockUnitRepository) List(ctx context.Context, filter unit.Filter) ([]unit.Unit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]unit.Unit), args.Error(1)
}

// MockOccupancySynchronizer is a mock implementation of unit.OccupancySynchronizer
type MockOccupancySynchronizer struct {
	mock.Mock
}

func (m *MockOccupancySynchronizer) MarkOccupied(ctx context.Context, unitID int64) error {
	args := m.Called(ctx, unitID)
	return args.Error(0)
}

func (m *MockOccupancySynchronizer) MarkVacant(ctx context.Context, unitID int64) error {
	args := m.Called(ctx, unitID)
	return args.Error(0)
}

// MockPartyRepository is a mock implementation of party.Repository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) Exists(ctx context.Context, partyType party.Type, id int64) (bool, error) {
	args := m.Called(ctx, partyType, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) Published() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]shared.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}
