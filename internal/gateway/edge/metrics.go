package edge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Gate decision outcomes.
const (
	OutcomeAllowed        = "allowed"
	OutcomeMissingToken   = "missing_token"
	OutcomeInvalidToken   = "invalid_token"
	OutcomeForbidden      = "forbidden"
	OutcomeTransportError = "transport_error"
)

// Metrics counts gate decisions and times the remote validation. A nil
// *Metrics records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
	validate  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_auth_decisions_total",
			Help: "Access decisions on protected routes by outcome.",
		}, []string{"outcome"}),
		validate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gateway_auth_validate_duration_seconds",
			Help:    "Latency of the remote token validation call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.decisions, m.validate)
	return m
}

func (m *Metrics) observeDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeValidate(d time.Duration) {
	if m == nil {
		return
	}
	m.validate.Observe(d.Seconds())
}
