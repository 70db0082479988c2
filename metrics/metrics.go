// Package metrics exposes FuseLLM's Prometheus instrumentation: FUSE
// operation latency, LLM and search request latency, and in-flight
// request gauges, served over HTTP when a metrics address is configured.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector FuseLLM registers. Held by the
// dispatcher and the ports so each can record its own observations
// without depending on the others.
type Metrics struct {
	registry *prometheus.Registry

	FuseOpDuration    *prometheus.HistogramVec
	LLMRequestSeconds *prometheus.HistogramVec
	SearchSeconds     *prometheus.HistogramVec
	InflightRequests  *prometheus.GaugeVec
}

// New builds a Metrics with every collector registered against a fresh
// registry, so nothing leaks into the default global one.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FuseOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fusellm_fuse_op_duration_seconds",
			Help:    "Latency of FUSE dispatcher operations, by op.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		LLMRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fusellm_llm_request_duration_seconds",
			Help:    "Latency of LLM port chat completions, by model.",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"}),
		SearchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fusellm_search_request_duration_seconds",
			Help:    "Latency of search port calls, by command.",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		InflightRequests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fusellm_inflight_requests",
			Help: "Number of in-flight async jobs, by kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(m.FuseOpDuration, m.LLMRequestSeconds, m.SearchSeconds, m.InflightRequests)
	return m
}

// Handler returns the HTTP handler to mount at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a minimal HTTP server exposing /metrics at addr until ctx is
// canceled.
func Serve(ctx context.Context, addr string, m *Metrics) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
