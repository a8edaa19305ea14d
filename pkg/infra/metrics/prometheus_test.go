package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/cadport/pkg/domain/model"
	"github.com/m-mizutani/cadport/pkg/infra/metrics"
)

func TestPrometheus_Handler(t *testing.T) {
	p := metrics.New()
	p.ObserveAcquisition("success")
	p.ObserveAcquisition("success")
	p.ObserveArtifact(model.RoleFootprint)
	p.ObserveSearch("fallback")

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.Value(t, w.Code).Equal(http.StatusOK)

	body, err := io.ReadAll(w.Body)
	gt.NoError(t, err)
	gt.String(t, string(body)).Contains(`cadport_acquisitions_total{outcome="success"} 2`)
	gt.String(t, string(body)).Contains(`cadport_artifacts_total{role="footprint"} 1`)
	gt.String(t, string(body)).Contains(`cadport_searches_total{outcome="fallback"} 1`)
	gt.String(t, string(body)).Contains(`cadport_artifacts_total{role="pspice"} 0`)
}

func TestPrometheus_IndependentRegistries(t *testing.T) {
	// Two recorders must not collide on registration
	a := metrics.New()
	b := metrics.New()
	a.ObserveSearch("success")
	b.ObserveSearch("success")
}
