package config

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration loads and fallbacks of one component.
// Metric names are prefixed with the component name, e.g. worker_config_fallbacks_total.
type ConfigMetrics struct {
	LoadTimestamp  prometheus.Gauge
	FallbacksTotal *prometheus.CounterVec
	FallbackActive prometheus.Gauge

	active map[string]bool
}

// NewConfigMetrics registers the metrics of componentName with reg
// (prometheus.DefaultRegisterer when reg is nil).
func NewConfigMetrics(componentName string, reg prometheus.Registerer) *ConfigMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallbacks", componentName),
		}, []string{"field"}),
		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),
		active: make(map[string]bool),
	}
}

// RecordLoadTimestamp marks a completed configuration load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// SetFallbackActive records whether field currently runs on its default.
func (m *ConfigMetrics) SetFallbackActive(field string, active bool) {
	m.active[field] = active
	for _, on := range m.active {
		if on {
			m.FallbackActive.Set(1)
			return
		}
	}
	m.FallbackActive.Set(0)
}

// Apply returns the loaded value, logging and counting a fallback when one happened.
// m and logger may be nil.
func Apply[T any](m *ConfigMetrics, logger *slog.Logger, field string, r LoadResult[T]) T {
	if r.FallbackApplied {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("reason", r.Warning))
	}
	if m != nil {
		if r.FallbackApplied {
			m.FallbacksTotal.WithLabelValues(field).Inc()
		}
		m.SetFallbackActive(field, r.FallbackApplied)
	}
	return r.Value
}
