package service

import (
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the authority's token counters. A nil *Metrics records
// nothing.
type Metrics struct {
	validations *prometheus.CounterVec
	issued      *prometheus.CounterVec
	revoked     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Token validations by result.",
		}, []string{"result"}),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Tokens issued by type.",
		}, []string{"type"}),
		revoked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auth_revoked_tokens",
			Help: "Entries currently held in the revocation store.",
		}),
	}
	reg.MustRegister(m.validations, m.issued, m.revoked)
	return m
}

func (m *Metrics) observeValidation(status domain.TokenStatus) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) observeIssued(kind string) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(kind).Inc()
}

func (m *Metrics) setRevoked(n int) {
	if m == nil {
		return
	}
	m.revoked.Set(float64(n))
}
