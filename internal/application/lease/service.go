package lease

import (
	"context"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/report"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LeaseService is the lease transaction coordinator. Every write runs in one
// transaction covering the lease row, its escalation schedule and the unit
// occupancy flag; domain events are published only after commit.
type LeaseService struct {
	txScope      TransactionScope
	units        unit.Repository
	parties      party.Repository
	queries      lease.QueryRepository
	escalations  lease.EscalationRepository
	capabilities shared.Capabilities
	clock        shared.Clock

	eventPublisher shared.EventPublisher
	metrics        *telemetry.LeaseMetrics
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(
	txScope TransactionScope,
	units unit.Repository,
	parties party.Repository,
	queries lease.QueryRepository,
	escalations lease.EscalationRepository,
	capabilities shared.Capabilities,
) *LeaseService {
	return &LeaseService{
		txScope:      txScope,
		units:        units,
		parties:      parties,
		queries:      queries,
		escalations:  escalations,
		capabilities: capabilities,
		clock:        shared.SystemClock{},
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LeaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLeaseMetrics sets the business metrics recorder
func (s *LeaseService) SetLeaseMetrics(m *telemetry.LeaseMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for read-time derivations
func (s *LeaseService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// publishDomainEvents drains the lease's queued events to the publisher
func (s *LeaseService) publishDomainEvents(ctx context.Context, l *lease.Lease) {
	events := l.PullEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
}

// Create validates the request, then inserts the lease, its escalation
// schedule and flips the unit to occupied in one transaction.
func (s *LeaseService) Create(ctx context.Context, req CreateLeaseRequest) (*CreateLeaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "create",
		telemetry.SpanAttrUnitID, req.UnitID,
		telemetry.SpanAttrProjectID, req.ProjectID,
		telemetry.SpanAttrEscalations, len(req.Escalations),
	)
	defer span.End()

	input, err := req.ToInput()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	l, err := lease.NewLease(input)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(l.Escalations) > 0 {
		if err := s.capabilities.Require(shared.TableLeaseEscalations); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	if err := s.checkUnit(ctx, l.UnitID, l.ProjectID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.checkParties(ctx, &l.TenantID, l.OwnerID, l.SubTenantID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	schedule := l.Escalations
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Leases().Create(ctx, l); err != nil {
			return wrapPersistence("insert lease", err)
		}
		if len(schedule) > 0 {
			stored, err := repos.Escalations().ReplaceSchedule(ctx, l.ID, lease.Resequence(l.ID, schedule))
			if err != nil {
				return wrapPersistence("insert escalations", err)
			}
			l.Escalations = stored
		}
		if err := repos.Occupancy().MarkOccupied(ctx, l.UnitID); err != nil {
			return wrapPersistence("mark unit occupied", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("create lease", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrLeaseID, l.ID)
	if !lease.IsChronological(l.Escalations) {
		logger.L(ctx).Warn("Escalation schedule is not in date order",
			zap.Int64("lease_id", l.ID),
			zap.Int("escalations", len(l.Escalations)),
		)
	}

	l.MarkCreated()
	s.publishDomainEvents(ctx, l)
	s.metrics.RecordLeaseCreated(ctx, string(l.LeaseType))

	return &CreateLeaseResponse{LeaseID: l.ID}, nil
}

// Update applies a sparse patch. When the request carries escalations, even
// an empty list, the whole schedule is replaced in the same transaction.
func (s *LeaseService) Update(ctx context.Context, id int64, req UpdateLeaseRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "update", telemetry.SpanAttrLeaseID, id)
	defer span.End()
	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))

	patch, err := req.ToPatch()
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	var schedule []lease.EscalationEvent
	replaceSchedule := false
	if patch.HasEscalations() {
		schedule, err = lease.BuildSchedule(id, *patch.Escalations)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if len(schedule) > 0 {
			if err := s.capabilities.Require(shared.TableLeaseEscalations); err != nil {
				telemetry.RecordError(span, err)
				return err
			}
		}
		// Without the table there is no prior schedule to clear
		replaceSchedule = s.capabilities.Has(shared.TableLeaseEscalations)
	}
	if err := s.checkParties(ctx, patch.TenantID, patch.OwnerID, patch.SubTenantID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	var l *lease.Lease
	var fields []string
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.Leases().FindByID(ctx, id)
		if err != nil {
			return wrapPersistence("load lease", err)
		}
		if patch.IsEmpty() {
			return nil
		}
		fields, err = patch.Apply(l)
		if err != nil {
			return err
		}
		if err := repos.Leases().UpdateFields(ctx, l, fields); err != nil {
			return wrapPersistence("update lease", err)
		}
		if replaceSchedule {
			stored, err := repos.Escalations().ReplaceSchedule(ctx, id, schedule)
			if err != nil {
				return wrapPersistence("replace escalations", err)
			}
			l.Escalations = stored
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return wrapPersistence("update lease", err)
	}
	if patch.IsEmpty() {
		return nil
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrFieldCount, len(fields),
		telemetry.SpanAttrEscalations, len(schedule),
	)
	l.Raise(lease.NewLeaseUpdatedEvent(l.ID, fields, replaceSchedule))
	s.publishDomainEvents(ctx, l)
	return nil
}

// Approve moves a draft lease to approved
func (s *LeaseService) Approve(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, "approve", id, (*lease.Lease).Approve, false)
}

// Reject moves a draft lease to rejected
func (s *LeaseService) Reject(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, "reject", id, (*lease.Lease).Reject, true)
}

// Terminate ends the lease and vacates its unit when no other live lease
// holds it.
func (s *LeaseService) Terminate(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, "terminate", id, (*lease.Lease).Terminate, true)
}

func (s *LeaseService) changeStatus(
	ctx context.Context,
	method string,
	id int64,
	transition func(*lease.Lease) error,
	releaseUnit bool,
) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", method, telemetry.SpanAttrLeaseID, id)
	defer span.End()
	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))

	var l *lease.Lease
	var from lease.Status
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.Leases().FindByID(ctx, id)
		if err != nil {
			return wrapPersistence("load lease", err)
		}
		from = l.Status
		if err := transition(l); err != nil {
			return err
		}
		if err := repos.Leases().UpdateStatus(ctx, l); err != nil {
			return wrapPersistence("update lease status", err)
		}
		if releaseUnit {
			return releaseIfUnheld(ctx, repos, l)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return wrapPersistence(method+" lease", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrLeaseStatus, string(l.Status))
	s.publishDomainEvents(ctx, l)
	s.metrics.RecordStatusChange(ctx, string(from), string(l.Status))
	return nil
}

// Delete removes the lease and its schedule. A live lease releases its unit
// under the same rule as terminate.
func (s *LeaseService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "delete", telemetry.SpanAttrLeaseID, id)
	defer span.End()
	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))

	var l *lease.Lease
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.Leases().FindByID(ctx, id)
		if err != nil {
			return wrapPersistence("load lease", err)
		}
		if s.capabilities.Has(shared.TableLeaseEscalations) {
			if _, err := repos.Escalations().ReplaceSchedule(ctx, id, nil); err != nil {
				return wrapPersistence("delete escalations", err)
			}
		}
		if err := repos.Leases().Delete(ctx, id); err != nil {
			return wrapPersistence("delete lease", err)
		}
		if l.Status.IsLive() {
			return releaseIfUnheld(ctx, repos, l)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return wrapPersistence("delete lease", err)
	}

	l.Raise(lease.NewLeaseDeletedEvent(l))
	s.publishDomainEvents(ctx, l)
	s.metrics.RecordLeaseDeleted(ctx)
	return nil
}

// releaseIfUnheld marks the lease's unit vacant when no other live lease
// references it.
func releaseIfUnheld(ctx context.Context, repos TransactionalRepositories, l *lease.Lease) error {
	live, err := repos.Leases().CountLiveByUnit(ctx, l.UnitID, l.ID)
	if err != nil {
		return wrapPersistence("count live leases", err)
	}
	if live > 0 {
		return nil
	}
	if err := repos.Occupancy().MarkVacant(ctx, l.UnitID); err != nil {
		return wrapPersistence("mark unit vacant", err)
	}
	return nil
}

// GetByID returns the lease with party names, its schedule and the
// read-time status and days remaining.
func (s *LeaseService) GetByID(ctx context.Context, id int64) (*LeaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "get", telemetry.SpanAttrLeaseID, id)
	defer span.End()
	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))

	view, err := s.queries.GetView(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("load lease", err)
	}
	schedule, err := s.schedule(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	view.Escalations = schedule

	today := s.clock.Today()
	view.EffectiveStatus = view.Lease.EffectiveStatus(today)
	view.DaysRemaining = report.DaysRemaining(view.LeaseEnd, today)

	resp := ToLeaseResponse(view, today)
	return &resp, nil
}

// List returns lease summaries; status filters on the read-time status
func (s *LeaseService) List(ctx context.Context, req ListLeasesRequest) ([]LeaseListItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "list")
	defer span.End()

	summaries, err := s.queries.List(ctx, lease.ListFilter{
		Status:    lease.Status(req.Status),
		ProjectID: req.ProjectID,
		Search:    req.Search,
		Today:     s.clock.Today(),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("list leases", err)
	}

	out := make([]LeaseListItemResponse, len(summaries))
	for i, sm := range summaries {
		out[i] = ToLeaseListItemResponse(sm)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultsCount, len(out))
	return out, nil
}

// GetSchedule returns the lease's escalations ordered by sequence number
func (s *LeaseService) GetSchedule(ctx context.Context, id int64) ([]EscalationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "schedule", telemetry.SpanAttrLeaseID, id)
	defer span.End()
	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))

	if _, err := s.queries.GetView(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("load lease", err)
	}
	schedule, err := s.schedule(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return ToEscalationResponses(schedule), nil
}

// schedule reads the escalations, degrading to an empty schedule when the
// escalation table is absent.
func (s *LeaseService) schedule(ctx context.Context, id int64) ([]lease.EscalationEvent, error) {
	if !s.capabilities.Has(shared.TableLeaseEscalations) {
		logger.L(ctx).Warn("Escalation table missing, returning empty schedule",
			zap.String("table", shared.TableLeaseEscalations),
			zap.String("operation", "lease.schedule"),
		)
		return []lease.EscalationEvent{}, nil
	}
	events, err := s.escalations.GetSchedule(ctx, id)
	if err != nil {
		return nil, wrapPersistence("load escalations", err)
	}
	return events, nil
}

// checkUnit verifies the unit exists and belongs to the project
func (s *LeaseService) checkUnit(ctx context.Context, unitID, projectID int64) error {
	u, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		return wrapPersistence("load unit", err)
	}
	if !u.BelongsTo(projectID) {
		return shared.NewValidationError("unit_id", "does not belong to the given project")
	}
	return nil
}

// checkParties verifies that every referenced party exists. nil ids are skipped.
func (s *LeaseService) checkParties(ctx context.Context, tenantID, ownerID, subTenantID *int64) error {
	refs := []struct {
		id        *int64
		partyType party.Type
		entity    string
	}{
		{tenantID, party.TypeTenant, "tenant"},
		{ownerID, party.TypeOwner, "owner"},
		{subTenantID, party.TypeTenant, "sub-tenant"},
	}
	for _, ref := range refs {
		if ref.id == nil || *ref.id <= 0 {
			continue
		}
		ok, err := s.parties.Exists(ctx, ref.partyType, *ref.id)
		if err != nil {
			return wrapPersistence("check "+ref.entity, err)
		}
		if !ok {
			return shared.NewNotFoundError(ref.entity, *ref.id)
		}
	}
	return nil
}

// wrapPersistence passes domain errors through and wraps everything else
// as a PersistenceError carrying the cause.
func wrapPersistence(op string, err error) error {
	if err == nil || shared.IsDomainError(err) {
		return err
	}
	return shared.NewPersistenceError(op, err)
}
