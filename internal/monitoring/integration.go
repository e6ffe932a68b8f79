package monitoring

import (
	"sync"

	"github.com/paveg/tabula/internal/config"
)

//nolint:gochecknoglobals // Required for singleton pattern in monitoring system
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector sets the global metrics collector.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the global metrics collector.
// Returns nil if no global collector has been set.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// RecordGlobalOperation records an operation using the global collector.
// When no collector is set and config.MetricsCollection is on, an enabled
// collector is installed first; otherwise fn runs unrecorded.
func RecordGlobalOperation(operation string, rows int, fn func() error) error {
	collector := GetGlobalCollector()
	if collector == nil {
		if !config.GetGlobalConfig().MetricsCollection {
			return fn()
		}
		collector = ensureGlobalCollector()
	}
	return collector.RecordOperation(operation, rows, fn)
}

func ensureGlobalCollector() *MetricsCollector {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	if globalCollector == nil {
		globalCollector = NewMetricsCollector(true)
	}
	return globalCollector
}

// IsGlobalMonitoringEnabled returns true if global monitoring is enabled.
func IsGlobalMonitoringEnabled() bool {
	collector := GetGlobalCollector()
	return collector != nil && collector.IsEnabled()
}

// EnableGlobalMonitoring creates and sets a global metrics collector.
func EnableGlobalMonitoring() {
	SetGlobalCollector(NewMetricsCollector(true))
}

// DisableGlobalMonitoring disables the global metrics collector.
func DisableGlobalMonitoring() {
	collector := GetGlobalCollector()
	if collector != nil {
		collector.SetEnabled(false)
	}
}

// GetGlobalSummary returns a summary from the global collector.
func GetGlobalSummary() MetricsSummary {
	collector := GetGlobalCollector()
	if collector == nil {
		return MetricsSummary{}
	}
	return collector.GetSummary()
}
