// Package metrics records authentication outcomes as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lborres/ledger/core"
)

// Prometheus implements core.Observer.
type Prometheus struct {
	SignIns     *prometheus.CounterVec
	Resolutions *prometheus.CounterVec
}

var _ core.Observer = (*Prometheus)(nil)

// NewPrometheus creates the auth counters and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		SignIns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_auth_sign_in_total",
				Help: "Sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_auth_identity_resolutions_total",
				Help: "Per-request identity resolutions by resulting state",
			},
			[]string{"state"},
		),
	}

	reg.MustRegister(p.SignIns)
	reg.MustRegister(p.Resolutions)

	return p
}

func (p *Prometheus) ObserveSignIn(outcome core.SignInOutcome) {
	p.SignIns.WithLabelValues(string(outcome)).Inc()
}

func (p *Prometheus) ObserveResolution(state core.IdentityState) {
	p.Resolutions.WithLabelValues(state.String()).Inc()
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
