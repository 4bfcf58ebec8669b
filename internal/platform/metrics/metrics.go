package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "royalty"

// Metrics holds the Prometheus collectors shared by the service components.
type Metrics struct {
	// Dashboard
	DashboardRequestsTotal *prometheus.CounterVec
	AggregationDuration    *prometheus.HistogramVec

	// Snapshots
	SnapshotRunsTotal           *prometheus.CounterVec
	SnapshotRunDuration         prometheus.Histogram
	SnapshotTenantFailuresTotal prometheus.Counter

	// Ingestion
	IngestedRowsTotal        *prometheus.CounterVec
	IngestChunkFailuresTotal prometheus.Counter
	UnmappedUploadsTotal     *prometheus.CounterVec
}

// New registers all collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		DashboardRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "requests_total",
			Help:      "Dashboard requests by delivery mode and result",
		}, []string{"mode", "result"}),
		AggregationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent computing a facet bundle",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),

		SnapshotRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshots",
			Name:      "runs_total",
			Help:      "Snapshot refresh runs by result",
		}, []string{"result"}),
		SnapshotRunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshots",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full snapshot refresh run",
			Buckets:   []float64{.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
		SnapshotTenantFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshots",
			Name:      "tenant_failures_total",
			Help:      "Per-tenant snapshot refresh failures",
		}),

		IngestedRowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_total",
			Help:      "Normalized rows written per store",
		}, []string{"store"}),
		IngestChunkFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "chunk_failures_total",
			Help:      "Insert chunks that failed and were skipped",
		}),
		UnmappedUploadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "unmapped_uploads_total",
			Help:      "Uploads whose platform has no registered store",
		}, []string{"policy"}),
	}
}
