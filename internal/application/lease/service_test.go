package lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type testDeps struct {
	leases      *MockLeaseRepository
	escalations *MockEscalationRepository
	queries     *MockQueryRepository
	units       *MockUnitRepository
	occupancy   *MockOccupancySynchronizer
	parties     *MockPartyRepository
	publisher   *MockEventPublisher
}

func newTestService(caps shared.Capabilities) (*LeaseService, *testDeps) {
	d := &testDeps{
		leases:      new(MockLeaseRepository),
		escalations: new(MockEscalationRepository),
		queries:     new(MockQueryRepository),
		units:       new(MockUnitRepository),
		occupancy:   new(MockOccupancySynchronizer),
		parties:     new(MockPartyRepository),
		publisher:   new(MockEventPublisher),
	}
	scope := NewNoOpTransactionScope(d.leases, d.escalations, d.occupancy)
	svc := NewLeaseService(scope, d.units, d.parties, d.queries, d.escalations, caps)
	svc.SetEventPublisher(d.publisher)
	svc.SetClock(shared.FixedClock{Date: testToday})
	return svc, d
}

func int64Ptr(v int64) *int64 { return &v }

func validCreateRequest() CreateLeaseRequest {
	return CreateLeaseRequest{
		ProjectID:            1,
		UnitID:               5,
		OwnerID:              int64Ptr(2),
		TenantID:             3,
		LeaseStart:           "2024-01-01",
		LeaseEnd:             "2025-01-01",
		RentCommencementDate: "2024-02-01",
		MonthlyRent:          decimal.NewFromInt(50000),
		LeaseType:            string(lease.LeaseTypeDirect),
	}
}

// expectReferences sets up a unit in project 1 and existing owner/tenant
func expectReferences(d *testDeps) {
	d.units.On("FindByID", mock.Anything, int64(5)).Return(&unit.Unit{ID: 5, ProjectID: 1, Status: unit.StatusVacant}, nil)
	d.parties.On("Exists", mock.Anything, party.TypeTenant, int64(3)).Return(true, nil)
	d.parties.On("Exists", mock.Anything, party.TypeOwner, int64(2)).Return(true, nil)
}

func storedLease(t *testing.T, status lease.Status) *lease.Lease {
	t.Helper()
	l, err := lease.NewLease(lease.CreateInput{
		ProjectID:            1,
		UnitID:               5,
		OwnerID:              int64Ptr(2),
		TenantID:             3,
		LeaseStart:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEnd:             time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		RentCommencementDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:          decimal.NewFromInt(50000),
		LeaseType:            lease.LeaseTypeDirect,
	})
	require.NoError(t, err)
	l.ID = 11
	l.Status = status
	return l
}

func TestLeaseService_Create_WritesInOrder(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	expectReferences(d)

	var calls []string
	d.leases.On("Create", mock.Anything, mock.AnythingOfType("*lease.Lease")).
		Run(func(args mock.Arguments) {
			l := args.Get(1).(*lease.Lease)
			assert.Equal(t, lease.StatusDraft, l.Status)
			assert.Equal(t, 12, l.TenureMonths)
			l.ID = 42
			calls = append(calls, "lease")
		}).Return(nil)
	d.escalations.On("ReplaceSchedule", mock.Anything, int64(42), mock.MatchedBy(func(events []lease.EscalationEvent) bool {
		return len(events) == 2 &&
			events[0].SequenceNo == 1 && events[1].SequenceNo == 2 &&
			events[0].LeaseID == 42 &&
			events[0].IncreaseType == lease.IncreasePercentage
	})).
		Run(func(args mock.Arguments) { calls = append(calls, "escalations") }).
		Return([]lease.EscalationEvent{
			{ID: 1, LeaseID: 42, SequenceNo: 1, EffectiveFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 2, LeaseID: 42, SequenceNo: 2, EffectiveFrom: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
	d.occupancy.On("MarkOccupied", mock.Anything, int64(5)).
		Run(func(args mock.Arguments) { calls = append(calls, "occupancy") }).
		Return(nil)

	req := validCreateRequest()
	req.Status = "approved"
	req.Escalations = []EscalationRequest{
		{EffectiveFrom: "2024-07-01", Value: decimal.NewFromInt(5)},
		{EffectiveFrom: "2024-10-01", IncreaseType: "FixedAmount", Value: decimal.NewFromInt(1000)},
	}

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.LeaseID)
	assert.Equal(t, []string{"lease", "escalations", "occupancy"}, calls)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, lease.EventTypeLeaseCreated, events[0].EventType())
	assert.Equal(t, int64(42), events[0].AggregateID())
}

func TestLeaseService_Create_NoEscalationsSkipsSchedule(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	expectReferences(d)
	d.leases.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*lease.Lease).ID = 7 }).
		Return(nil)
	d.occupancy.On("MarkOccupied", mock.Anything, int64(5)).Return(nil)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.LeaseID)
	d.escalations.AssertNotCalled(t, "ReplaceSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaseService_Create_UnitInOtherProject(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.units.On("FindByID", mock.Anything, int64(5)).Return(&unit.Unit{ID: 5, ProjectID: 99}, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "unit_id", de.Field)
	d.leases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.Published())
}

func TestLeaseService_Create_UnitMissing(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.units.On("FindByID", mock.Anything, int64(5)).Return(nil, shared.NewNotFoundError("unit", 5))

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	d.leases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeaseService_Create_TenantMissing(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.units.On("FindByID", mock.Anything, int64(5)).Return(&unit.Unit{ID: 5, ProjectID: 1}, nil)
	d.parties.On("Exists", mock.Anything, party.TypeTenant, int64(3)).Return(false, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.Contains(t, err.Error(), "tenant 3")
}

func TestLeaseService_Create_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateLeaseRequest)
		field  string
	}{
		{"missing tenant", func(r *CreateLeaseRequest) { r.TenantID = 0 }, "tenant_id"},
		{"missing lease_start", func(r *CreateLeaseRequest) { r.LeaseStart = "" }, "lease_start"},
		{"bad date", func(r *CreateLeaseRequest) { r.LeaseEnd = "01/01/2025" }, "lease_end"},
		{"direct lease without owner", func(r *CreateLeaseRequest) { r.OwnerID = nil }, "owner_id"},
		{"subtenant lease without sub-tenant", func(r *CreateLeaseRequest) {
			r.LeaseType = string(lease.LeaseTypeSubtenant)
		}, "sub_tenant_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newTestService(shared.AllCapabilities())
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, shared.CodeValidation, de.Code)
			assert.Equal(t, tt.field, de.Field)
			d.units.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			d.leases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestLeaseService_Create_EscalationTableMissing(t *testing.T) {
	caps := shared.NewCapabilities(map[string]bool{shared.TableNotifications: true})
	svc, d := newTestService(caps)

	req := validCreateRequest()
	req.Escalations = []EscalationRequest{{EffectiveFrom: "2024-07-01", Value: decimal.NewFromInt(5)}}

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConfigurationDrift))
	d.leases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeaseService_Create_StoreFailureIsPersistenceError(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	expectReferences(d)
	boom := errors.New("connection reset")
	d.leases.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*lease.Lease).ID = 42 }).
		Return(nil)
	d.occupancy.On("MarkOccupied", mock.Anything, int64(5)).Return(boom)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrPersistence))
	assert.True(t, errors.Is(err, boom))
	assert.Empty(t, d.publisher.Published())
}

func TestLeaseService_Update_SparsePatch(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("UpdateFields", mock.Anything, l, []string{"monthly_rent"}).Return(nil)

	rent := decimal.NewFromInt(60000)
	err := svc.Update(context.Background(), 11, UpdateLeaseRequest{MonthlyRent: &rent})
	require.NoError(t, err)

	assert.True(t, rent.Equal(l.MonthlyRent))
	assert.Equal(t, lease.LeaseTypeDirect, l.LeaseType)
	d.escalations.AssertNotCalled(t, "ReplaceSchedule", mock.Anything, mock.Anything, mock.Anything)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	updated, ok := events[0].(*lease.LeaseUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"monthly_rent"}, updated.Fields)
	assert.False(t, updated.EscalationsReplaced)
}

func TestLeaseService_Update_EmptyEscalationsClearSchedule(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("UpdateFields", mock.Anything, l, mock.Anything).Return(nil)
	d.escalations.On("ReplaceSchedule", mock.Anything, int64(11), mock.MatchedBy(func(events []lease.EscalationEvent) bool {
		return len(events) == 0
	})).Return([]lease.EscalationEvent{}, nil)

	empty := []EscalationRequest{}
	err := svc.Update(context.Background(), 11, UpdateLeaseRequest{Escalations: &empty})
	require.NoError(t, err)
	d.escalations.AssertExpectations(t)
}

func TestLeaseService_Update_InvalidPatchRollsBack(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)

	end := "2023-01-01"
	err := svc.Update(context.Background(), 11, UpdateLeaseRequest{LeaseEnd: &end})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	d.leases.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.Published())
}

func TestLeaseService_Update_NotFound(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.leases.On("FindByID", mock.Anything, int64(404)).Return(nil, shared.NewNotFoundError("lease", 404))

	rent := decimal.NewFromInt(1)
	err := svc.Update(context.Background(), 404, UpdateLeaseRequest{MonthlyRent: &rent})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestLeaseService_Update_EmptyPatchIsNoOp(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)

	require.NoError(t, svc.Update(context.Background(), 11, UpdateLeaseRequest{}))
	d.leases.AssertCalled(t, "FindByID", mock.Anything, int64(11))
	d.leases.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, d.publisher.Published())
}

func TestLeaseService_Update_EmptyPatchUnknownLease(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.leases.On("FindByID", mock.Anything, int64(987654)).Return(nil, shared.NewNotFoundError("lease", 987654))

	err := svc.Update(context.Background(), 987654, UpdateLeaseRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeNotFound, de.Code)
	assert.Empty(t, d.publisher.Published())
}

func TestLeaseService_Approve(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("UpdateStatus", mock.Anything, l).Return(nil)

	require.NoError(t, svc.Approve(context.Background(), 11))
	assert.Equal(t, lease.StatusApproved, l.Status)
	d.occupancy.AssertNotCalled(t, "MarkOccupied", mock.Anything, mock.Anything)
	d.occupancy.AssertNotCalled(t, "MarkVacant", mock.Anything, mock.Anything)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	changed := events[0].(*lease.LeaseStatusChangedEvent)
	assert.Equal(t, lease.StatusDraft, changed.From)
	assert.Equal(t, lease.StatusApproved, changed.To)
}

func TestLeaseService_Approve_NotDraft(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusApproved)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)

	err := svc.Approve(context.Background(), 11)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	d.leases.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestLeaseService_Reject_OnlyFromDraft(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusTerminated)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)

	err := svc.Reject(context.Background(), 11)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestLeaseService_Terminate_VacatesUnheldUnit(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusApproved)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("UpdateStatus", mock.Anything, l).Return(nil)
	d.leases.On("CountLiveByUnit", mock.Anything, int64(5), int64(11)).Return(int64(0), nil)
	d.occupancy.On("MarkVacant", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, svc.Terminate(context.Background(), 11))
	assert.Equal(t, lease.StatusTerminated, l.Status)
	d.occupancy.AssertExpectations(t)
}

func TestLeaseService_Terminate_KeepsUnitHeldByOtherLease(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusDraft)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("UpdateStatus", mock.Anything, l).Return(nil)
	d.leases.On("CountLiveByUnit", mock.Anything, int64(5), int64(11)).Return(int64(1), nil)

	require.NoError(t, svc.Terminate(context.Background(), 11))
	d.occupancy.AssertNotCalled(t, "MarkVacant", mock.Anything, mock.Anything)
}

func TestLeaseService_Delete(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusApproved)

	var calls []string
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.escalations.On("ReplaceSchedule", mock.Anything, int64(11), []lease.EscalationEvent(nil)).
		Run(func(mock.Arguments) { calls = append(calls, "escalations") }).
		Return([]lease.EscalationEvent{}, nil)
	d.leases.On("Delete", mock.Anything, int64(11)).
		Run(func(mock.Arguments) { calls = append(calls, "lease") }).
		Return(nil)
	d.leases.On("CountLiveByUnit", mock.Anything, int64(5), int64(11)).Return(int64(0), nil)
	d.occupancy.On("MarkVacant", mock.Anything, int64(5)).
		Run(func(mock.Arguments) { calls = append(calls, "occupancy") }).
		Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 11))
	assert.Equal(t, []string{"escalations", "lease", "occupancy"}, calls)

	events := d.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, lease.EventTypeLeaseDeleted, events[0].EventType())
}

func TestLeaseService_Delete_RejectedLeaseLeavesUnit(t *testing.T) {
	caps := shared.NewCapabilities(nil)
	svc, d := newTestService(caps)
	l := storedLease(t, lease.StatusRejected)
	d.leases.On("FindByID", mock.Anything, int64(11)).Return(l, nil)
	d.leases.On("Delete", mock.Anything, int64(11)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 11))
	d.escalations.AssertNotCalled(t, "ReplaceSchedule", mock.Anything, mock.Anything, mock.Anything)
	d.occupancy.AssertNotCalled(t, "MarkVacant", mock.Anything, mock.Anything)
}

func TestLeaseService_GetByID(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	l := storedLease(t, lease.StatusApproved)
	l.LeaseEnd = testToday.AddDate(0, 0, 10)
	view := &lease.View{Lease: *l, ProjectName: "Phoenix Mall", UnitNumber: "G-01", TenantName: "Acme Retail"}
	d.queries.On("GetView", mock.Anything, int64(11)).Return(view, nil)
	d.escalations.On("GetSchedule", mock.Anything, int64(11)).Return([]lease.EscalationEvent{
		{ID: 1, LeaseID: 11, SequenceNo: 1, EffectiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			IncreaseType: lease.IncreasePercentage, Value: decimal.NewFromInt(10)},
	}, nil)

	resp, err := svc.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "approved", resp.StoredStatus)
	assert.Equal(t, 10, resp.DaysRemaining)
	assert.Equal(t, "Phoenix Mall", resp.ProjectName)
	require.Len(t, resp.Escalations, 1)
	assert.Equal(t, "2025-01-01", resp.Escalations[0].EffectiveFrom)
	assert.True(t, decimal.NewFromInt(55000).Equal(resp.CurrentRent))
}

func TestLeaseService_GetByID_EscalationTableMissing(t *testing.T) {
	svc, d := newTestService(shared.NewCapabilities(nil))
	l := storedLease(t, lease.StatusApproved)
	l.LeaseEnd = testToday.AddDate(0, 0, -1)
	d.queries.On("GetView", mock.Anything, int64(11)).Return(&lease.View{Lease: *l}, nil)

	resp, err := svc.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "expired", resp.Status)
	assert.NotNil(t, resp.Escalations)
	assert.Empty(t, resp.Escalations)
	d.escalations.AssertNotCalled(t, "GetSchedule", mock.Anything, mock.Anything)
}

func TestLeaseService_List_UsesClockForDerivedStatus(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	projectID := int64(1)
	d.queries.On("List", mock.Anything, lease.ListFilter{
		Status:    lease.StatusActive,
		ProjectID: &projectID,
		Search:    "acme",
		Today:     testToday,
	}).Return([]lease.Summary{
		{ID: 11, TenantName: "Acme Retail", Status: lease.StatusApproved, EffectiveStatus: lease.StatusActive,
			LeaseStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	items, err := svc.List(context.Background(), ListLeasesRequest{Status: "active", ProjectID: &projectID, Search: "acme"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "active", items[0].Status)
	assert.Equal(t, "2024-01-01", items[0].LeaseStart)
}

func TestLeaseService_GetSchedule_NotFound(t *testing.T) {
	svc, d := newTestService(shared.AllCapabilities())
	d.queries.On("GetView", mock.Anything, int64(9)).Return(nil, shared.NewNotFoundError("lease", 9))

	_, err := svc.GetSchedule(context.Background(), 9)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
