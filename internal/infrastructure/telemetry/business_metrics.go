package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LeaseMetrics records lease lifecycle and dashboard metrics.
type LeaseMetrics struct {
	logger *zap.Logger

	leaseCreated       metric.Int64Counter
	leaseStatusChanged metric.Int64Counter
	leaseDeleted       metric.Int64Counter
	dashboardBuild     metric.Float64Histogram
	leasesByStatus     metric.Int64Gauge

	provider    LeaseCountProvider
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// LeaseCountProvider supplies stored lease counts per status for the gauge.
type LeaseCountProvider interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewLeaseMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewLeaseMetrics registers the lease instruments on meter.
// provider may be nil, in which case periodic collection is a no-op.
func NewLeaseMetrics(meter metric.Meter, provider LeaseCountProvider, logger *zap.Logger) (*LeaseMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &LeaseMetrics{
		logger:   logger,
		provider: provider,
		stopChan: make(chan struct{}),
	}

	in := NewInstruments(meter)
	m.leaseCreated = in.Counter("lms_lease_created_total", "Leases created", "{leases}")
	m.leaseStatusChanged = in.Counter("lms_lease_status_changed_total", "Explicit lease status transitions", "{transitions}")
	m.leaseDeleted = in.Counter("lms_lease_deleted_total", "Leases deleted", "{leases}")
	m.dashboardBuild = in.Seconds("lms_dashboard_build_seconds", "Time to assemble the dashboard payload")
	m.leasesByStatus = in.Gauge("lms_leases_by_status", "Stored leases per status", "{leases}")
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordLeaseCreated counts a committed lease creation.
func (m *LeaseMetrics) RecordLeaseCreated(ctx context.Context, leaseType string) {
	if m == nil {
		return
	}
	m.leaseCreated.Add(ctx, 1, metric.WithAttributes(AttrLeaseType.String(leaseType)))
}

// RecordStatusChange counts a committed approve, reject or terminate.
func (m *LeaseMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.leaseStatusChanged.Add(ctx, 1, metric.WithAttributes(AttrLeaseStatusFrom.String(from), AttrLeaseStatus.String(to)))
}

// RecordLeaseDeleted counts a committed deletion.
func (m *LeaseMetrics) RecordLeaseDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.leaseDeleted.Add(ctx, 1)
}

// RecordDashboardBuild records how long the dashboard took and whether it
// came from cache.
func (m *LeaseMetrics) RecordDashboardBuild(ctx context.Context, d time.Duration, cacheResult string) {
	if m == nil {
		return
	}
	m.dashboardBuild.Record(ctx, d.Seconds(), metric.WithAttributes(AttrCacheResult.String(cacheResult)))
}

// StartPeriodicCollection samples lease counts every interval until Stop or
// ctx cancellation. It is non-blocking and only starts once.
func (m *LeaseMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go m.runPeriodicCollection(ctx, interval)
	})
}

func (m *LeaseMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collect(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect(ctx)
		}
	}
}

func (m *LeaseMetrics) collect(ctx context.Context) {
	if m.provider == nil {
		return
	}
	counts, err := m.provider.CountByStatus(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect lease counts", zap.Error(err))
		return
	}
	for status, n := range counts {
		m.leasesByStatus.Record(ctx, n, metric.WithAttributes(AttrLeaseStatus.String(status)))
	}
}

// Stop ends periodic collection.
func (m *LeaseMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

// LeaseCountFunc adapts a function to LeaseCountProvider.
type LeaseCountFunc func(ctx context.Context) (map[string]int64, error)

// CountByStatus calls f.
func (f LeaseCountFunc) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return f(ctx)
}
