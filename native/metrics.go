package native

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts processed entities and recorded issues.
type Metrics struct {
	Entities *prometheus.CounterVec
	Issues   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "native_xml_adapter",
			Name:      "entities_total",
			Help:      "Number of entities imported or exported.",
		}, []string{"kind", "direction"}),
		Issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "native_xml_adapter",
			Name:      "issues_total",
			Help:      "Number of non-fatal issues recorded.",
		}, []string{"severity"}),
	}
	if reg != nil {
		reg.MustRegister(m.Entities, m.Issues)
	}
	return m
}

func (m *Metrics) entity(k Kind, d Direction) {
	m.Entities.WithLabelValues(k.String(), d.String()).Inc()
}

func (m *Metrics) issue(s Severity) {
	m.Issues.WithLabelValues(s.String()).Inc()
}
