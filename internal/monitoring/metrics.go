// Package monitoring provides metrics collection for DataFrame operations.
//
// Each MetricsCollector owns a private Prometheus registry with an operation
// counter, a duration histogram and a rows-processed counter, plus an
// in-memory log of recent operations for quick summaries.
package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace  = "tabula"
	statusOK   = "success"
	statusFail = "error"
)

// OperationMetrics represents performance metrics for a single DataFrame operation.
type OperationMetrics struct {
	Operation     string        `json:"operation"`
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	Failed        bool          `json:"failed"`
}

// MetricsCollector collects and stores performance metrics for DataFrame operations.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool

	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	rows       *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	mc := &MetricsCollector{
		metrics:  make([]OperationMetrics, 0),
		enabled:  enabled,
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of DataFrame operations by outcome",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of DataFrame operations",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"operation"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Input rows processed by DataFrame operations",
		}, []string{"operation"}),
	}
	mc.registry.MustRegister(mc.operations, mc.durations, mc.rows)
	return mc
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// RecordOperation executes fn and records its duration, outcome and the
// number of input rows it processed.
func (mc *MetricsCollector) RecordOperation(operation string, rows int, fn func() error) error {
	if !mc.IsEnabled() {
		return fn()
	}

	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := statusOK
	if err != nil {
		status = statusFail
	}
	mc.operations.WithLabelValues(operation, status).Inc()
	mc.durations.WithLabelValues(operation).Observe(duration.Seconds())
	mc.rows.WithLabelValues(operation).Add(float64(rows))

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, OperationMetrics{
		Operation:     operation,
		Duration:      duration,
		RowsProcessed: int64(rows),
		Failed:        err != nil,
	})
	mc.mu.Unlock()

	return err
}

// Registry returns the Prometheus registry holding the collector's metrics
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected operation records. Prometheus counters are
// monotonic and are not reset.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	var totalDuration time.Duration
	var totalRows int64
	failures := 0
	operationCounts := make(map[string]int)

	for _, metric := range mc.metrics {
		totalDuration += metric.Duration
		totalRows += metric.RowsProcessed
		operationCounts[metric.Operation]++
		if metric.Failed {
			failures++
		}
	}

	return MetricsSummary{
		TotalOperations:  len(mc.metrics),
		FailedOperations: failures,
		TotalDuration:    totalDuration,
		TotalRows:        totalRows,
		OperationCounts:  operationCounts,
		AverageDuration:  totalDuration / time.Duration(len(mc.metrics)),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations  int            `json:"total_operations"`
	FailedOperations int            `json:"failed_operations"`
	TotalDuration    time.Duration  `json:"total_duration"`
	TotalRows        int64          `json:"total_rows"`
	OperationCounts  map[string]int `json:"operation_counts"`
	AverageDuration  time.Duration  `json:"average_duration"`
}
