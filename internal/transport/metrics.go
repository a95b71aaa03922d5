package transport

import "github.com/prometheus/client_golang/prometheus"

// Operation label values for request metrics.
const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Metrics counts outbound catalog service requests by operation and
// outcome. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the request counters and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog_client",
			Name:      "requests_total",
			Help:      "Outbound catalog service requests by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

func (m *Metrics) observe(op string, ok bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.requests.WithLabelValues(op, outcome).Inc()
}
