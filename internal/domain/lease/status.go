package lease

import "time"

// Status is the persisted lifecycle status of a lease
type Status string

const (
	StatusDraft      Status = "draft"
	StatusApproved   Status = "approved"
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusTerminated Status = "terminated"
	StatusRejected   Status = "rejected"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusDraft, StatusApproved, StatusActive, StatusExpired, StatusTerminated, StatusRejected,
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusActive, StatusExpired, StatusTerminated, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether an explicit write may move a lease from s to target.
// active and expired are never written explicitly; they are derived at read time.
func (s Status) CanTransitionTo(target Status) bool {
	switch target {
	case StatusApproved:
		return s == StatusDraft
	case StatusRejected:
		return s == StatusDraft
	case StatusTerminated:
		return s == StatusDraft || s == StatusApproved || s == StatusActive
	}
	return false
}

// IsLive reports whether a lease in this status still holds its unit
func (s Status) IsLive() bool {
	return s != StatusTerminated && s != StatusRejected
}

// LiveStatuses are the statuses that keep a unit occupied
var LiveStatuses = []Status{StatusDraft, StatusApproved, StatusActive, StatusExpired}

// CommencedStatuses are the stored statuses from which active/expired are derived
var CommencedStatuses = []Status{StatusApproved, StatusActive, StatusExpired}

// EffectiveStatus derives the status shown to readers. Approved (or legacy
// active/expired) leases read as active while lease_end is today or later
// and as expired afterwards. Other statuses are returned unchanged.
func EffectiveStatus(stored Status, leaseEnd, today time.Time) Status {
	switch stored {
	case StatusApproved, StatusActive, StatusExpired:
		if leaseEnd.Before(today) {
			return StatusExpired
		}
		return StatusActive
	}
	return stored
}

// LeaseType classifies the contractual structure of a lease
type LeaseType string

const (
	LeaseTypeDirect          LeaseType = "DirectLease"
	LeaseTypeSubtenant       LeaseType = "SubtenantLease"
	LeaseTypeLeaveAndLicense LeaseType = "LeaveAndLicense"
)

// IsValid checks if the lease type is known. The empty type is accepted and
// carries no conditional requirements.
func (t LeaseType) IsValid() bool {
	switch t {
	case "", LeaseTypeDirect, LeaseTypeSubtenant, LeaseTypeLeaveAndLicense:
		return true
	}
	return false
}

// RentModel describes how rent is computed
type RentModel string

const (
	RentModelFixed        RentModel = "Fixed"
	RentModelRevenueShare RentModel = "RevenueShare"
	RentModelHybrid       RentModel = "Hybrid"
)

// IsValid checks if the rent model is known; empty means Fixed
func (m RentModel) IsValid() bool {
	switch m {
	case "", RentModelFixed, RentModelRevenueShare, RentModelHybrid:
		return true
	}
	return false
}

// BillingFrequency is how often rent is invoiced
type BillingFrequency string

const (
	BillingMonthly    BillingFrequency = "monthly"
	BillingQuarterly  BillingFrequency = "quarterly"
	BillingHalfYearly BillingFrequency = "half_yearly"
	BillingYearly     BillingFrequency = "yearly"
)

// IsValid checks if the billing frequency is known; empty means monthly
func (f BillingFrequency) IsValid() bool {
	switch f {
	case "", BillingMonthly, BillingQuarterly, BillingHalfYearly, BillingYearly:
		return true
	}
	return false
}
