package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "inspirehub"

// OperationMetrics records application operations as Prometheus metrics.
// It satisfies app.OperationObserver.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewOperationMetrics registers the collectors on reg. Registering twice on
// the same registry reuses the existing collectors.
func NewOperationMetrics(reg prometheus.Registerer) (*OperationMetrics, error) {
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of application operations.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 45},
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}

	total, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "operations_total",
		Help:      "Application operations by outcome. The outcome is ok or the failing step.",
	}, []string{"operation", "outcome"}))
	if err != nil {
		return nil, err
	}

	return &OperationMetrics{duration: duration, total: total}, nil
}

// ObserveOperation records one finished operation.
func (m *OperationMetrics) ObserveOperation(operation, outcome string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
	m.total.WithLabelValues(operation, outcome).Inc()
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		var zero C

		return zero, err
	}

	return c, nil
}
