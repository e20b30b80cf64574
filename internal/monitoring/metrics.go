package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
)

// Metrics contains the prometheus instruments for provider calls, circuit
// breakers and rate limiting.
type Metrics struct {
	// Provider call duration histogram
	providerDuration *prometheus.HistogramVec

	// Provider call count counter
	providerCalls *prometheus.CounterVec

	// Circuit breaker state gauge
	circuitBreakerState *prometheus.GaugeVec

	// Rate limit decision counter
	rateLimitDecisions *prometheus.CounterVec
}

// NewMetrics creates a new instance of the platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockinfo_provider_call_duration_seconds",
				Help:    "Duration of data provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "operation", "status"},
		),

		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockinfo_provider_calls_total",
				Help: "Total number of data provider calls",
			},
			[]string{"provider", "status"},
		),

		circuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockinfo_circuit_breaker_state",
				Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),

		rateLimitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockinfo_rate_limit_decisions_total",
				Help: "Total number of rate limit decisions",
			},
			[]string{"scope", "decision"},
		),
	}
}

// MustRegister registers all metrics with the provided registry
func (m *Metrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.providerDuration,
		m.providerCalls,
		m.circuitBreakerState,
		m.rateLimitDecisions,
	)
}

// RecordProviderCall records a provider call with duration and status
func (m *Metrics) RecordProviderCall(provider, operation, status string, duration float64) {
	m.providerDuration.WithLabelValues(provider, operation, status).Observe(duration)
	m.providerCalls.WithLabelValues(provider, status).Inc()
}

// UpdateCircuitBreakerState updates the circuit breaker state gauge
func (m *Metrics) UpdateCircuitBreakerState(name string, state breaker.State) {
	m.circuitBreakerState.WithLabelValues(name).Set(stateValue(state))
}

// RecordRateLimitDecision records an allow or reject decision for a scope
// ("user" or "ip")
func (m *Metrics) RecordRateLimitDecision(scope string, allowed bool) {
	decision := "allowed"
	if !allowed {
		decision = "rejected"
	}
	m.rateLimitDecisions.WithLabelValues(scope, decision).Inc()
}

func stateValue(state breaker.State) float64 {
	switch state {
	case breaker.StateHalfOpen:
		return 1
	case breaker.StateOpen:
		return 2
	default:
		return 0
	}
}
