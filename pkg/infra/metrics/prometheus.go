// Package metrics exposes pipeline counters in the Prometheus format
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

// Prometheus records acquisition, artifact and search outcomes on its own registry
type Prometheus struct {
	registry     *prometheus.Registry
	acquisitions *prometheus.CounterVec
	artifacts    *prometheus.CounterVec
	searches     *prometheus.CounterVec
}

// New creates a Prometheus recorder with Go runtime and process collectors registered
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	p := &Prometheus{
		registry: reg,
		acquisitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadport_acquisitions_total",
				Help: "Library acquisitions by outcome",
			},
			[]string{"outcome"},
		),
		artifacts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadport_artifacts_total",
				Help: "Extracted artifacts by role",
			},
			[]string{"role"},
		),
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadport_searches_total",
				Help: "Part searches by outcome",
			},
			[]string{"outcome"},
		),
	}

	// Export every role from the start, including those never extracted
	for _, role := range model.Roles {
		p.artifacts.WithLabelValues(string(role))
	}
	return p
}

func (p *Prometheus) ObserveAcquisition(outcome string) {
	p.acquisitions.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) ObserveArtifact(role model.Role) {
	p.artifacts.WithLabelValues(string(role)).Inc()
}

func (p *Prometheus) ObserveSearch(outcome string) {
	p.searches.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
