package shared

// Auxiliary tables whose presence is resolved once at startup
const (
	TableLeaseEscalations = "lease_escalations"
	TableNotifications    = "notifications"
	TableUnitAssignments  = "unit_assignments"
)

// Capabilities records which auxiliary tables exist in the datastore.
// It is immutable after construction and safe for concurrent use.
type Capabilities struct {
	tables map[string]bool
}

// NewCapabilities creates capabilities from a table -> present map
func NewCapabilities(tables map[string]bool) Capabilities {
	copied := make(map[string]bool, len(tables))
	for k, v := range tables {
		copied[k] = v
	}
	return Capabilities{tables: copied}
}

// AllCapabilities reports every auxiliary table as present
func AllCapabilities() Capabilities {
	return NewCapabilities(map[string]bool{
		TableLeaseEscalations: true,
		TableNotifications:    true,
		TableUnitAssignments:  true,
	})
}

// Has reports whether the table is available
func (c Capabilities) Has(table string) bool {
	return c.tables[table]
}

// Require returns a ConfigurationDrift error when the table is missing
func (c Capabilities) Require(table string) error {
	if !c.Has(table) {
		return NewConfigurationDrift(table)
	}
	return nil
}

// Snapshot returns a copy of the flags for reporting
func (c Capabilities) Snapshot() map[string]bool {
	out := make(map[string]bool, len(c.tables))
	for k, v := range c.tables {
		out[k] = v
	}
	return out
}
