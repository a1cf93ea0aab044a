// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Evaluation metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter

	// Last-result gauges, labeled by KPI name
	KPIValue        *prometheus.GaugeVec
	ChecksPassed    prometheus.Gauge
	TimelineDays    prometheus.Gauge
	LastEvaluatedAt prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "promotion_lab"
	}

	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "evaluations_total",
			Help:      "Total number of evaluations by outcome verdict",
		}, []string{"verdict"}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "evaluation_duration_seconds",
			Help:      "Full evaluation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "cache_hits_total",
			Help:      "Total number of evaluation cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "cache_misses_total",
			Help:      "Total number of evaluation cache misses",
		}),

		KPIValue: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "kpi_value",
			Help:      "Last evaluated KPI value by name",
		}, []string{"kpi"}),
		ChecksPassed: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "checks_passed",
			Help:      "Number of decision checks passed in the last evaluation",
		}),
		TimelineDays: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "timeline_days",
			Help:      "Business days in the last reconstructed timeline",
		}),
		LastEvaluatedAt: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "last_evaluated_timestamp",
			Help:      "Unix timestamp of the last completed evaluation",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// RecordEvaluation records one completed evaluation.
func (m *Metrics) RecordEvaluation(verdict string, seconds float64, kpis map[string]float64, checksPassed, timelineDays int, evaluatedAtUnix int64) {
	m.EvaluationsTotal.WithLabelValues(verdict).Inc()
	m.EvaluationDuration.Observe(seconds)
	for name, v := range kpis {
		m.KPIValue.WithLabelValues(name).Set(v)
	}
	m.ChecksPassed.Set(float64(checksPassed))
	m.TimelineDays.Set(float64(timelineDays))
	m.LastEvaluatedAt.Set(float64(evaluatedAtUnix))
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
