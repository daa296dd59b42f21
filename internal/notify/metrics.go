package notify

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

const (
	namespace = "taskbin"
	subsystem = "lifecycle"
)

// Compile-time interface check.
var _ types.Notifier = (*Metrics)(nil)

// Metrics counts lifecycle operations and the entities they touched.
type Metrics struct {
	operations *prometheus.CounterVec
	entities   *prometheus.CounterVec
}

// NewMetrics registers the lifecycle counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_total",
				Help:      "Total number of committed lifecycle operations by event and entity kind",
			},
			[]string{"event", "kind"},
		),
		entities: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "entities_total",
				Help:      "Total number of entities changed by lifecycle operations",
			},
			[]string{"event"},
		),
	}
}

// Notify increments the counters for ev.
func (m *Metrics) Notify(_ context.Context, ev types.Event) error {
	m.operations.WithLabelValues(string(ev.Kind), kindLabel(ev)).Inc()
	m.entities.WithLabelValues(string(ev.Kind)).Add(float64(ev.Affected))
	return nil
}

// kindLabel is the entity kind, or the scope kind for emptied trash.
func kindLabel(ev types.Event) string {
	if ev.Scope != nil {
		return string(ev.Scope.Kind)
	}
	return string(ev.Ref.Kind)
}
