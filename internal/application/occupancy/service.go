package occupancy

import (
	"context"

	"github.com/saifghl/lms/internal/domain/party"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/domain/unit"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AssignmentService links owners and tenants to units outside of a lease and
// keeps the unit occupancy flag in step with those links.
type AssignmentService struct {
	txScope      TransactionScope
	units        unit.Repository
	parties      party.Repository
	assignments  party.AssignmentRepository
	capabilities shared.Capabilities

	eventPublisher shared.EventPublisher
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	txScope TransactionScope,
	units unit.Repository,
	parties party.Repository,
	assignments party.AssignmentRepository,
	capabilities shared.Capabilities,
) *AssignmentService {
	return &AssignmentService{
		txScope:      txScope,
		units:        units,
		parties:      parties,
		assignments:  assignments,
		capabilities: capabilities,
	}
}

// SetEventPublisher sets the publisher for assignment events
func (s *AssignmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publish delivers events after commit. Handler failures are logged by the
// bus and never fail the write.
func (s *AssignmentService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// Assign links the party to the unit and marks the unit occupied. Assigning
// the same party twice keeps the original assignment.
func (s *AssignmentService) Assign(ctx context.Context, unitID int64, partyType party.Type, partyID int64) (*AssignmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "assign",
		telemetry.SpanAttrUnitID, unitID,
		telemetry.SpanAttrPartyType, string(partyType),
		telemetry.SpanAttrPartyID, partyID,
	)
	defer span.End()

	if err := s.capabilities.Require(shared.TableUnitAssignments); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !partyType.IsValid() {
		return nil, shared.NewValidationError("party_type", "must be owner or tenant")
	}
	if _, err := s.units.FindByID(ctx, unitID); err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("load unit", err)
	}
	ok, err := s.parties.Exists(ctx, partyType, partyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("check "+string(partyType), err)
	}
	if !ok {
		return nil, shared.NewNotFoundError(string(partyType), partyID)
	}

	a := &party.UnitAssignment{UnitID: unitID, PartyType: partyType, PartyID: partyID}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Assignments().Create(ctx, a); err != nil {
			return wrapPersistence("insert assignment", err)
		}
		if err := repos.Occupancy().MarkOccupied(ctx, unitID); err != nil {
			return wrapPersistence("mark unit occupied", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("assign "+string(partyType), err)
	}

	s.publish(ctx, party.NewUnitAssignedEvent(*a))
	resp := ToAssignmentResponse(*a)
	return &resp, nil
}

// Unassign removes the link. The unit is marked vacant only when nothing
// else holds it: no remaining assignment and no live lease.
func (s *AssignmentService) Unassign(ctx context.Context, unitID int64, partyType party.Type, partyID int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "unassign",
		telemetry.SpanAttrUnitID, unitID,
		telemetry.SpanAttrPartyType, string(partyType),
		telemetry.SpanAttrPartyID, partyID,
	)
	defer span.End()

	if err := s.capabilities.Require(shared.TableUnitAssignments); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if !partyType.IsValid() {
		return shared.NewValidationError("party_type", "must be owner or tenant")
	}

	vacated := false
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		removed, err := repos.Assignments().Delete(ctx, unitID, partyType, partyID)
		if err != nil {
			return wrapPersistence("delete assignment", err)
		}
		if !removed {
			return shared.NewNotFoundError(string(partyType)+" assignment", partyID)
		}

		remaining, err := repos.Assignments().CountByUnit(ctx, unitID)
		if err != nil {
			return wrapPersistence("count assignments", err)
		}
		if remaining > 0 {
			return nil
		}
		live, err := repos.Leases().CountLiveByUnit(ctx, unitID, 0)
		if err != nil {
			return wrapPersistence("count live leases", err)
		}
		if live > 0 {
			return nil
		}
		vacated = true
		return wrapPersistence("mark unit vacant", repos.Occupancy().MarkVacant(ctx, unitID))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return wrapPersistence("unassign "+string(partyType), err)
	}

	logger.L(ctx).Debug("Unit assignment removed",
		zap.Int64("unit_id", unitID),
		zap.String("party_type", string(partyType)),
		zap.Int64("party_id", partyID),
		zap.Bool("vacated", vacated),
	)
	s.publish(ctx, party.NewUnitUnassignedEvent(unitID, partyType, partyID, vacated))
	return nil
}

// ListAssignments returns the unit's assignments, oldest first. Without the
// assignment table the list is empty.
func (s *AssignmentService) ListAssignments(ctx context.Context, unitID int64) ([]AssignmentResponse, error) {
	if !s.capabilities.Has(shared.TableUnitAssignments) {
		logger.L(ctx).Warn("Assignment table missing, returning empty list",
			zap.String("table", shared.TableUnitAssignments),
			zap.String("operation", "occupancy.list_assignments"),
		)
		return []AssignmentResponse{}, nil
	}
	if _, err := s.units.FindByID(ctx, unitID); err != nil {
		return nil, wrapPersistence("load unit", err)
	}
	list, err := s.assignments.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, wrapPersistence("list assignments", err)
	}
	out := make([]AssignmentResponse, len(list))
	for i, a := range list {
		out[i] = ToAssignmentResponse(a)
	}
	return out, nil
}

// ListUnits returns units with their occupancy flag
func (s *AssignmentService) ListUnits(ctx context.Context, req ListUnitsRequest) ([]UnitResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "list_units")
	defer span.End()

	units, err := s.units.List(ctx, unit.Filter{
		ProjectID: req.ProjectID,
		Status:    unit.OccupancyStatus(req.Status),
		SortBy:    req.SortBy,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("list units", err)
	}
	out := make([]UnitResponse, len(units))
	for i, u := range units {
		out[i] = ToUnitResponse(u)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultsCount, len(out))
	return out, nil
}

func wrapPersistence(op string, err error) error {
	if err == nil || shared.IsDomainError(err) {
		return err
	}
	return shared.NewPersistenceError(op, err)
}
