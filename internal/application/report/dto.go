package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsResponse is the dashboard payload. Keys are camelCase to match
// the dashboard client.
type DashboardStatsResponse struct {
	AsOf                string                   `json:"asOf"`
	CurrencyCode        string                   `json:"currencyCode"`
	Metrics             DashboardMetrics         `json:"metrics"`
	UpcomingRenewals    []LeaseDeadlineResponse  `json:"upcomingRenewals"`
	UpcomingExpiries    []LeaseDeadlineResponse  `json:"upcomingExpiries"`
	RentEscalations     []RentEscalationResponse `json:"rentEscalations"`
	RevenueTrends       []RevenueTrendResponse   `json:"revenueTrends"`
	RevenueTrendsKind   string                   `json:"revenueTrendsKind"`
	Occupancy           OccupancyResponse        `json:"occupancy"`
	StatusBreakdown     []StatusCountResponse    `json:"statusBreakdown"`
	RecentNotifications []NotificationResponse   `json:"recentNotifications"`
}

// DashboardMetrics are the headline figures, each compared with one month earlier
type DashboardMetrics struct {
	TotalLeases    MetricResponse `json:"totalLeases"`
	ActiveLeases   MetricResponse `json:"activeLeases"`
	ExpiringSoon   MetricResponse `json:"expiringSoon"`
	MonthlyRevenue MetricResponse `json:"monthlyRevenue"`
}

// MetricResponse is one headline figure
type MetricResponse struct {
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted,omitempty"`
	Change    string          `json:"change"`
	Direction string          `json:"direction"`
}

// LeaseDeadlineResponse is a lease approaching its end date
type LeaseDeadlineResponse struct {
	LeaseID       int64           `json:"leaseId"`
	ProjectName   string          `json:"projectName"`
	UnitNumber    string          `json:"unitNumber"`
	TenantName    string          `json:"tenantName"`
	LeaseEnd      string          `json:"leaseEnd"`
	DaysRemaining int             `json:"daysRemaining"`
	MonthlyRent   decimal.Decimal `json:"monthlyRent"`
	HighUrgency   bool            `json:"highUrgency"`
	Risk          string          `json:"risk"`
	Status        string          `json:"status"`
}

// RentEscalationResponse is a scheduled increase with its before and after rent
type RentEscalationResponse struct {
	LeaseID       int64           `json:"leaseId"`
	EscalationID  int64           `json:"escalationId"`
	SequenceNo    int             `json:"sequenceNo"`
	ProjectName   string          `json:"projectName"`
	UnitNumber    string          `json:"unitNumber"`
	TenantName    string          `json:"tenantName"`
	EffectiveFrom string          `json:"effectiveFrom"`
	DaysUntil     int             `json:"daysUntil"`
	IncreaseType  string          `json:"increaseType"`
	Value         decimal.Decimal `json:"value"`
	CurrentRent   decimal.Decimal `json:"currentRent"`
	NewRent       decimal.Decimal `json:"newRent"`
	Increase      string          `json:"increase"`
}

// RevenueTrendResponse is one month of the projected revenue series
type RevenueTrendResponse struct {
	Month            string          `json:"month"`
	ProjectedRevenue decimal.Decimal `json:"projectedRevenue"`
	Formatted        string          `json:"formatted"`
	Kind             string          `json:"kind"`
}

// OccupancyResponse counts units by occupancy flag
type OccupancyResponse struct {
	Total       int64           `json:"total"`
	Occupied    int64           `json:"occupied"`
	Vacant      int64           `json:"vacant"`
	Maintenance int64           `json:"maintenance"`
	Rate        decimal.Decimal `json:"rate"`
}

// StatusCountResponse is the number of leases reading as one status
type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// NotificationResponse is a recent lifecycle notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	LeaseID   *int64    `json:"leaseId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
