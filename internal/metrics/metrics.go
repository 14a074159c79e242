// Package metrics exposes Prometheus counters for authentication outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels. Kept coarse on purpose: failure detail stays in logs, never
// in label cardinality.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeExpired = "expired"
	OutcomeRevoked = "revoked"
	OutcomeReuse   = "reuse"
	OutcomeError   = "error"
)

// Metrics is the counter set shared by the engine. A nil *Metrics is valid
// and drops every observation.
type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	validations   *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	logouts       prometheus.Counter
}

// New registers the counter set on reg and returns it.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "registrations_total",
			Help:      "User registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "validations_total",
			Help:      "Access token validations by outcome.",
		}, []string{"outcome"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "refreshes_total",
			Help:      "Refresh rotations by outcome.",
		}, []string{"outcome"}),
		logouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "logouts_total",
			Help:      "Completed logouts.",
		}),
	}
}

// IncRegistration records a registration outcome.
func (m *Metrics) IncRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// IncLogin records a login outcome.
func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// IncValidation records a validation outcome.
func (m *Metrics) IncValidation(outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(outcome).Inc()
}

// IncRefresh records a refresh outcome.
func (m *Metrics) IncRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// IncLogout records a completed logout.
func (m *Metrics) IncLogout() {
	if m == nil {
		return
	}
	m.logouts.Inc()
}
