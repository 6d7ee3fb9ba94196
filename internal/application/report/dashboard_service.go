package report

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/saifghl/lms/internal/domain/lease"
	"github.com/saifghl/lms/internal/domain/notification"
	"github.com/saifghl/lms/internal/domain/report"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const statsKeyPrefix = "stats:"

// Cache result labels recorded on the dashboard build histogram
const (
	CacheResultHit    = "hit"
	CacheResultMiss   = "miss"
	CacheResultBypass = "bypass"
)

// StatsCache stores serialized dashboard payloads
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}

// DashboardOptions holds the aggregator's windows, all in days unless named otherwise
type DashboardOptions struct {
	RenewalWindowDays      int
	ExpiryWindowDays       int
	ExpiringSoonDays       int
	EscalationWindowDays   int
	HighUrgencyThreshold   int
	ProjectionMonths       int
	RecentNotificationsMax int
	CurrencyCode           string
	CacheTTL               time.Duration
}

// DefaultDashboardOptions returns the standard dashboard windows
func DefaultDashboardOptions() DashboardOptions {
	return DashboardOptions{
		RenewalWindowDays:      60,
		ExpiryWindowDays:       90,
		ExpiringSoonDays:       30,
		EscalationWindowDays:   90,
		HighUrgencyThreshold:   report.HighUrgencyThreshold,
		ProjectionMonths:       12,
		RecentNotificationsMax: 10,
		CurrencyCode:           lease.DefaultCurrencyCode,
		CacheTTL:               5 * time.Minute,
	}
}

// DashboardService is the temporal metrics aggregator. It reads current lease
// and escalation data and derives every dashboard figure as of today; it
// never writes lease state.
type DashboardService struct {
	repo          report.DashboardRepository
	escalations   lease.EscalationRepository
	notifications notification.Repository
	capabilities  shared.Capabilities
	clock         shared.Clock
	opts          DashboardOptions
	money         moneyFormatter

	cache   StatsCache
	metrics *telemetry.LeaseMetrics

	// generation is bumped by Invalidate; a build that straddles a bump is
	// not cached.
	generation atomic.Uint64
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	repo report.DashboardRepository,
	escalations lease.EscalationRepository,
	notifications notification.Repository,
	capabilities shared.Capabilities,
	opts DashboardOptions,
) *DashboardService {
	return &DashboardService{
		repo:          repo,
		escalations:   escalations,
		notifications: notifications,
		capabilities:  capabilities,
		clock:         shared.SystemClock{},
		opts:          opts,
		money:         newMoneyFormatter(opts.CurrencyCode),
	}
}

// SetCache enables cache-aside storage of the daily payload
func (s *DashboardService) SetCache(cache StatsCache) {
	s.cache = cache
}

// SetLeaseMetrics sets the business metrics recorder
func (s *DashboardService) SetLeaseMetrics(m *telemetry.LeaseMetrics) {
	s.metrics = m
}

// SetClock replaces the clock that decides "today"
func (s *DashboardService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// GetStats returns the dashboard for today, served from the cache when a
// payload for today is present.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStatsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "stats")
	defer span.End()

	start := time.Now()
	today := s.clock.Today()
	key := statsKeyPrefix + today.Format(time.DateOnly)

	if cached, ok := s.fromCache(ctx, key); ok {
		telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true)
		s.metrics.RecordDashboardBuild(ctx, time.Since(start), CacheResultHit)
		return cached, nil
	}

	gen := s.generation.Load()
	var (
		resp *DashboardStatsResponse
		err  error
	)
	telemetry.ProfileOperation(ctx, "dashboard.build", func(ctx context.Context) {
		resp, err = s.build(ctx, today)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := CacheResultBypass
	if s.cache != nil {
		result = CacheResultMiss
		s.toCache(ctx, key, gen, resp)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, false)
	s.metrics.RecordDashboardBuild(ctx, time.Since(start), result)
	return resp, nil
}

// Invalidate drops every cached payload and marks in-flight builds stale
func (s *DashboardService) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAll(ctx)
}

func (s *DashboardService) fromCache(ctx context.Context, key string) (*DashboardStatsResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp DashboardStatsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.L(ctx).Warn("Dashboard cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

// toCache stores resp unless a write invalidated the cache after the build
// started. An invalidation landing between the check and Set is caught by
// the second check.
func (s *DashboardService) toCache(ctx context.Context, key string, gen uint64, resp *DashboardStatsResponse) {
	if s.generation.Load() != gen {
		logger.L(ctx).Debug("Dashboard payload went stale during build", zap.String("key", key))
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.L(ctx).Warn("Dashboard payload not cacheable", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		logger.L(ctx).Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if s.generation.Load() != gen {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			logger.L(ctx).Warn("Dashboard cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// build gathers the independent reads concurrently, then derives the figures
func (s *DashboardService) build(ctx context.Context, today time.Time) (*DashboardStatsResponse, error) {
	prev := today.AddDate(0, -1, 0)
	prevCutoff := prev.AddDate(0, 0, 1)

	var (
		roll          []report.RentRollEntry
		total         int64
		prevTotal     int64
		byStatus      map[lease.Status]int64
		renewals      []report.ExpiringLease
		expiries      []report.ExpiringLease
		due           []report.DueEscalation
		occupancy     report.Occupancy
		notifications []notification.Notification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roll, err = s.rentRoll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountLeases(gctx, nil)
		return wrapPersistence("count leases", err)
	})
	g.Go(func() error {
		var err error
		prevTotal, err = s.repo.CountLeases(gctx, &prevCutoff)
		return wrapPersistence("count leases", err)
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.CountByStatus(gctx)
		return wrapPersistence("count leases by status", err)
	})
	g.Go(func() error {
		var err error
		renewals, err = s.repo.LeasesEndingBetween(gctx, today, today.AddDate(0, 0, s.opts.RenewalWindowDays))
		return wrapPersistence("load upcoming renewals", err)
	})
	g.Go(func() error {
		var err error
		expiries, err = s.repo.LeasesEndingBetween(gctx, today, today.AddDate(0, 0, s.opts.ExpiryWindowDays))
		return wrapPersistence("load upcoming expiries", err)
	})
	g.Go(func() error {
		var err error
		due, err = s.dueEscalations(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		occupancy, err = s.repo.UnitOccupancy(gctx)
		return wrapPersistence("count unit occupancy", err)
	})
	g.Go(func() error {
		var err error
		notifications, err = s.recentNotifications(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	revenue := report.MonthlyRevenue(roll, today)
	prevRevenue := report.MonthlyRevenue(roll, prev)

	resp := &DashboardStatsResponse{
		AsOf:         today.Format(time.DateOnly),
		CurrencyCode: s.money.Code(),
		Metrics: DashboardMetrics{
			TotalLeases: countMetric(report.CountFigure(total, prevTotal)),
			ActiveLeases: countMetric(report.CountFigure(
				report.CountActive(roll, today),
				report.CountActive(roll, prev),
			)),
			ExpiringSoon: countMetric(report.CountFigure(
				report.CountEndingWithin(roll, today, s.opts.ExpiringSoonDays),
				report.CountEndingWithin(roll, prev, s.opts.ExpiringSoonDays),
			)),
			MonthlyRevenue: s.moneyMetric(report.Figure{Current: revenue, Previous: prevRevenue}),
		},
		UpcomingRenewals:    s.deadlines(renewals, today),
		UpcomingExpiries:    s.deadlines(expiries, today),
		RentEscalations:     s.pricedEscalations(due, roll, today),
		RevenueTrends:       s.trends(roll, today),
		RevenueTrendsKind:   report.TrendKindProjected,
		Occupancy:           toOccupancyResponse(occupancy),
		StatusBreakdown:     statusCounts(report.StatusBreakdown(byStatus, roll, today)),
		RecentNotifications: toNotificationResponses(notifications),
	}
	return resp, nil
}

// rentRoll loads commenced leases with their schedules attached. Without the
// escalation table every lease is priced at its base rent.
func (s *DashboardService) rentRoll(ctx context.Context) ([]report.RentRollEntry, error) {
	roll, err := s.repo.RentRoll(ctx)
	if err != nil {
		return nil, wrapPersistence("load rent roll", err)
	}
	if len(roll) == 0 {
		return roll, nil
	}
	if !s.capabilities.Has(shared.TableLeaseEscalations) {
		s.logDrift(ctx, shared.TableLeaseEscalations, "dashboard.rent_roll")
		return roll, nil
	}
	schedules, err := s.escalations.GetSchedules(ctx, report.IDs(roll))
	if err != nil {
		return nil, wrapPersistence("load escalation schedules", err)
	}
	for i := range roll {
		roll[i].Escalations = schedules[roll[i].LeaseID]
	}
	return roll, nil
}

func (s *DashboardService) dueEscalations(ctx context.Context, today time.Time) ([]report.DueEscalation, error) {
	if !s.capabilities.Has(shared.TableLeaseEscalations) {
		s.logDrift(ctx, shared.TableLeaseEscalations, "dashboard.rent_escalations")
		return nil, nil
	}
	due, err := s.repo.EscalationsEffectiveBetween(ctx, today, today.AddDate(0, 0, s.opts.EscalationWindowDays))
	return due, wrapPersistence("load due escalations", err)
}

func (s *DashboardService) recentNotifications(ctx context.Context) ([]notification.Notification, error) {
	if !s.capabilities.Has(shared.TableNotifications) {
		s.logDrift(ctx, shared.TableNotifications, "dashboard.recent_notifications")
		return nil, nil
	}
	list, err := s.notifications.ListRecent(ctx, s.opts.RecentNotificationsMax)
	return list, wrapPersistence("load notifications", err)
}

func (s *DashboardService) logDrift(ctx context.Context, table, operation string) {
	logger.L(ctx).Warn("Auxiliary table missing, substituting empty result",
		zap.String("table", table),
		zap.String("operation", operation),
	)
}

func (s *DashboardService) deadlines(leases []report.ExpiringLease, today time.Time) []LeaseDeadlineResponse {
	out := make([]LeaseDeadlineResponse, len(leases))
	for i, l := range leases {
		days := report.DaysRemaining(l.LeaseEnd, today)
		urgency := report.ClassifyUrgency(days, s.opts.HighUrgencyThreshold)
		out[i] = LeaseDeadlineResponse{
			LeaseID:       l.LeaseID,
			ProjectName:   l.ProjectName,
			UnitNumber:    l.UnitNumber,
			TenantName:    l.TenantName,
			LeaseEnd:      l.LeaseEnd.Format(time.DateOnly),
			DaysRemaining: days,
			MonthlyRent:   l.MonthlyRent,
			HighUrgency:   urgency.High,
			Risk:          urgency.RiskBadge,
			Status:        urgency.StatusBadge,
		}
	}
	return out
}

func (s *DashboardService) pricedEscalations(due []report.DueEscalation, roll []report.RentRollEntry, today time.Time) []RentEscalationResponse {
	schedules := make(map[int64][]lease.EscalationEvent, len(roll))
	for _, e := range roll {
		schedules[e.LeaseID] = e.Escalations
	}

	out := make([]RentEscalationResponse, len(due))
	for i, d := range due {
		before, after := report.PriceEscalation(d, schedules[d.LeaseID])
		out[i] = RentEscalationResponse{
			LeaseID:       d.LeaseID,
			EscalationID:  d.EscalationID,
			SequenceNo:    d.SequenceNo,
			ProjectName:   d.ProjectName,
			UnitNumber:    d.UnitNumber,
			TenantName:    d.TenantName,
			EffectiveFrom: d.EffectiveFrom.Format(time.DateOnly),
			DaysUntil:     report.DaysRemaining(d.EffectiveFrom, today),
			IncreaseType:  string(d.IncreaseType),
			Value:         d.Value,
			CurrentRent:   before,
			NewRent:       after,
			Increase:      escalationLabel(d, s.money),
		}
	}
	return out
}

func escalationLabel(d report.DueEscalation, money moneyFormatter) string {
	if d.IncreaseType == lease.IncreaseFixedAmount {
		return "+" + money.Format(d.Value)
	}
	return "+" + d.Value.String() + "%"
}

func (s *DashboardService) trends(roll []report.RentRollEntry, today time.Time) []RevenueTrendResponse {
	points := report.ProjectRevenue(roll, today, s.opts.ProjectionMonths)
	out := make([]RevenueTrendResponse, len(points))
	for i, p := range points {
		out[i] = RevenueTrendResponse{
			Month:            p.Month,
			ProjectedRevenue: p.ProjectedRevenue,
			Formatted:        s.money.Format(p.ProjectedRevenue),
			Kind:             p.Kind,
		}
	}
	return out
}

func countMetric(f report.Figure) MetricResponse {
	return MetricResponse{
		Value:     f.Current,
		Change:    f.Change(),
		Direction: string(f.Direction()),
	}
}

func (s *DashboardService) moneyMetric(f report.Figure) MetricResponse {
	m := countMetric(f)
	m.Value = f.Current.Round(2)
	m.Formatted = s.money.Format(f.Current)
	return m
}

func toOccupancyResponse(o report.Occupancy) OccupancyResponse {
	return OccupancyResponse{
		Total:       o.Total,
		Occupied:    o.Occupied,
		Vacant:      o.Vacant,
		Maintenance: o.Maintenance,
		Rate:        o.Rate(),
	}
}

func statusCounts(breakdown map[lease.Status]int64) []StatusCountResponse {
	out := make([]StatusCountResponse, 0, len(lease.AllStatuses))
	for _, st := range lease.AllStatuses {
		out = append(out, StatusCountResponse{Status: string(st), Count: breakdown[st]})
	}
	return out
}

func toNotificationResponses(list []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(list))
	for i, n := range list {
		out[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			LeaseID:   n.LeaseID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

func wrapPersistence(op string, err error) error {
	if err == nil || shared.IsDomainError(err) {
		return err
	}
	return shared.NewPersistenceError(op, err)
}
