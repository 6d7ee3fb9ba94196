package occupancy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *party.UnitAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, unitID int64, partyType party.Type, partyID int64) (bool, error) {
	args := m.Called(ctx, unitID, partyType, partyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) CountByUnit(ctx context.Context, unitID int64) (int64, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) ListByUnit(ctx context.Context, unitID int64) ([]party.UnitAssignment, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]party.UnitAssignment), args.Error(1)
}

// MockLeaseRepository only answers live-lease counts
type MockLeaseRepository struct {
	mock.Mock
	lease.LeaseRepository
}

func (m *MockLeaseRepository) CountLiveByUnit(ctx context.Context, unitID, excludeID int64) (int64, error) {
	args := m.Called(ctx, unitID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOccupancySynchronizer struct {
	mock.Mock
}

func (m *MockOccupancySynchronizer) MarkOccupied(ctx context.Context, unitID int64) error {
	return m.Called(ctx, unitID).Error(0)
}

func (m *MockOccupancySynchronizer) MarkVacant(ctx context.Context, unitID int64) error {
	return m.Called(ctx, unitID).Error(0)
}

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

type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) Exists(ctx context.Context, partyType party.Type, id int64) (bool, error) {
	args := m.Called(ctx, partyType, id)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

type testDeps struct {
	assignments *MockAssignmentRepository
	leases      *MockLeaseRepository
	occupancy   *MockOccupancySynchronizer
	units       *MockUnitRepository
	parties     *MockPartyRepository
	publisher   *recordingPublisher
}

func newTestService(caps shared.Capabilities) (*AssignmentService, *testDeps) {
	d := &testDeps{
		assignments: new(MockAssignmentRepository),
		leases:      new(MockLeaseRepository),
		occupancy:   new(MockOccupancySynchronizer),
		units:       new(MockUnitRepository),
		parties:     new(MockPartyRepository),
		publisher:   new(recordingPublisher),
	}
	scope := NewNoOpTransactionScope(d.assignments, d.leases, d.occupancy)
	svc := NewAssignmentService(scope, d.units, d.parties, d.assignments, caps)
	svc.SetEventPublisher(d.publisher)
	return svc, d
}

func TestAssignmentService_Assign(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	assignedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	d.units.On("FindByID", mock.Anything, int64(4)).Return(&unit.Unit{ID: 4, ProjectID: 1}, nil)
	d.parties.On("Exists", mock.Anything, party.TypeOwner, int64(2)).Return(true, nil)
	d.assignments.On("Create", mock.Anything, mock.AnythingOfType("*party.UnitAssignment")).
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*party.UnitAssignment)
			a.ID = 9
			a.AssignedAt = assignedAt
		}).Return(nil)
	d.occupancy.On("MarkOccupied", mock.Anything, int64(4)).Return(nil)

	resp, err := svc.Assign(context.Background(), 4, party.TypeOwner, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.ID)
	assert.Equal(t, "owner", resp.PartyType)
	assert.Equal(t, assignedAt, resp.AssignedAt)
	d.occupancy.AssertExpectations(t)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	assigned, ok := events[0].(*party.UnitAssignedEvent)
	require.True(t, ok)
	assert.Equal(t, party.EventTypeUnitAssigned, assigned.EventType())
	assert.Equal(t, int64(4), assigned.AggregateID())
	assert.Equal(t, party.TypeOwner, assigned.PartyType)
	assert.Equal(t, int64(2), assigned.PartyID)
}

func TestAssignmentService_Assign_PartyMissing(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.units.On("FindByID", mock.Anything, int64(4)).Return(&unit.Unit{ID: 4}, nil)
	d.parties.On("Exists", mock.Anything, party.TypeTenant, int64(77)).Return(false, nil)

	_, err := svc.Assign(context.Background(), 4, party.TypeTenant, 77)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	d.assignments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignmentService_Assign_UnitMissing(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.units.On("FindByID", mock.Anything, int64(4)).Return(nil, shared.NewNotFoundError("unit", 4))

	_, err := svc.Assign(context.Background(), 4, party.TypeTenant, 1)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAssignmentService_Assign_TableMissing(t *testing.T) {
	svc, d := newTestService(shared.NewCapabilities(map[string]bool{shared.TableLeaseEscalations: true}))

	_, err := svc.Assign(context.Background(), 4, party.TypeOwner, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConfigurationDrift))
	d.units.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAssignmentService_Assign_OccupancyFailure(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	boom := errors.New("deadlock detected")
	d.units.On("FindByID", mock.Anything, int64(4)).Return(&unit.Unit{ID: 4}, nil)
	d.parties.On("Exists", mock.Anything, party.TypeOwner, int64(2)).Return(true, nil)
	d.assignments.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.occupancy.On("MarkOccupied", mock.Anything, int64(4)).Return(boom)

	_, err := svc.Assign(context.Background(), 4, party.TypeOwner, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrPersistence))
	assert.True(t, errors.Is(err, boom))
	assert.Empty(t, d.publisher.Published())
}

func TestAssignmentService_Unassign_VacatesEmptyUnit(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.assignments.On("Delete", mock.Anything, int64(4), party.TypeTenant, int64(3)).Return(true, nil)
	d.assignments.On("CountByUnit", mock.Anything, int64(4)).Return(int64(0), nil)
	d.leases.On("CountLiveByUnit", mock.Anything, int64(4), int64(0)).Return(int64(0), nil)
	d.occupancy.On("MarkVacant", mock.Anything, int64(4)).Return(nil)

	require.NoError(t, svc.Unassign(context.Background(), 4, party.TypeTenant, 3))
	d.occupancy.AssertExpectations(t)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	unassigned, ok := events[0].(*party.UnitUnassignedEvent)
	require.True(t, ok)
	assert.Equal(t, party.EventTypeUnitUnassigned, unassigned.EventType())
	assert.Equal(t, int64(4), unassigned.UnitID)
	assert.True(t, unassigned.Vacated)
}

func TestAssignmentService_Unassign_KeepsUnitWithOtherHolders(t *testing.T) {
	t.Run("remaining assignment", func(t *testing.T) {
		svc, d := newTestService(shared.AllCapabilities())
		d.assignments.On("Delete", mock.Anything, int64(4), party.TypeOwner, int64(2)).Return(true, nil)
		d.assignments.On("CountByUnit", mock.Anything, int64(4)).Return(int64(1), nil)

		require.NoError(t, svc.Unassign(context.Background(), 4, party.TypeOwner, 2))
		d.leases.AssertNotCalled(t, "CountLiveByUnit", mock.Anything, mock.Anything, mock.Anything)
		d.occupancy.AssertNotCalled(t, "MarkVacant", mock.Anything, mock.Anything)
		require.Len(t, d.publisher.Published(), 1)
		assert.False(t, d.publisher.Published()[0].(*party.UnitUnassignedEvent).Vacated)
	})

	t.Run("live lease", func(t *testing.T) {
		svc, d := newTestService(shared.AllCapabilities())
		d.assignments.On("Delete", mock.Anything, int64(4), party.TypeOwner, int64(2)).Return(true, nil)
		d.assignments.On("CountByUnit", mock.Anything, int64(4)).Return(int64(0), nil)
		d.leases.On("CountLiveByUnit", mock.Anything, int64(4), int64(0)).Return(int64(1), nil)

		require.NoError(t, svc.Unassign(context.Background(), 4, party.TypeOwner, 2))
		d.occupancy.AssertNotCalled(t, "MarkVacant", mock.Anything, mock.Anything)
	})
}

func TestAssignmentService_Unassign_NotAssigned(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.assignments.On("Delete", mock.Anything, int64(4), party.TypeOwner, int64(2)).Return(false, nil)

	err := svc.Unassign(context.Background(), 4, party.TypeOwner, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	d.assignments.AssertNotCalled(t, "CountByUnit", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.Published())
}

func TestAssignmentService_ListAssignments_TableMissing(t *testing.T) {
	svc, d := newTestService(shared.NewCapabilities(nil))

	list, err := svc.ListAssignments(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	d.assignments.AssertNotCalled(t, "ListByUnit", mock.Anything, mock.Anything)
}

func TestAssignmentService_ListUnits(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	projectID := int64(1)
	d.units.On("List", mock.Anything, unit.Filter{ProjectID: &projectID, Status: unit.StatusVacant}).
		Return([]unit.Unit{{ID: 4, ProjectID: 1, UnitNumber: "G-01", Status: unit.StatusVacant}}, nil)

	units, err := svc.ListUnits(context.Background(), ListUnitsRequest{ProjectID: &projectID, Status: "vacant"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "G-01", units[0].UnitNumber)
	assert.Equal(t, "vacant", units[0].Status)
}
