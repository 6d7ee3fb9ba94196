package party

import "github.com/saifghl/lms/internal/domain/shared"

// AggregateTypeUnit is the aggregate type for assignment events; they are
// keyed by unit
const AggregateTypeUnit = "Unit"

const (
	EventTypeUnitAssigned   = "UnitAssigned"
	EventTypeUnitUnassigned = "UnitUnassigned"
)

// UnitAssignedEvent is raised after an owner or tenant is linked to a unit
type UnitAssignedEvent struct {
	shared.BaseDomainEvent
	UnitID    int64 `json:"unit_id"`
	PartyType Type  `json:"party_type"`
	PartyID   int64 `json:"party_id"`
}

// NewUnitAssignedEvent creates a UnitAssignedEvent
func NewUnitAssignedEvent(a UnitAssignment) *UnitAssignedEvent {
	return &UnitAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitAssigned, AggregateTypeUnit, a.UnitID),
		UnitID:          a.UnitID,
		PartyType:       a.PartyType,
		PartyID:         a.PartyID,
	}
}

// UnitUnassignedEvent is raised after a link is removed. Vacated tells
// whether the unit was marked vacant in the same transaction.
type UnitUnassignedEvent struct {
	shared.BaseDomainEvent
	UnitID    int64 `json:"unit_id"`
	PartyType Type  `json:"party_type"`
	PartyID   int64 `json:"party_id"`
	Vacated   bool  `json:"vacated"`
}

// NewUnitUnassignedEvent creates a UnitUnassignedEvent
func NewUnitUnassignedEvent(unitID int64, partyType Type, partyID int64, vacated bool) *UnitUnassignedEvent {
	return &UnitUnassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitUnassigned, AggregateTypeUnit, unitID),
		UnitID:          unitID,
		PartyType:       partyType,
		PartyID:         partyID,
		Vacated:         vacated,
	}
}
