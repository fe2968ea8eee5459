// Package metrics exposes the simulator's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts agent activity. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry  *prometheus.Registry
	streams   *prometheus.CounterVec
	approvals *prometheus.CounterVec
	chunks    prometheus.Counter
}

// NewRecorder creates a recorder on its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		streams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fina",
			Subsystem: "mockagent",
			Name:      "streams_total",
			Help:      "Chat streams completed, by final status.",
		}, []string{"status"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fina",
			Subsystem: "mockagent",
			Name:      "approvals_total",
			Help:      "Supervisor decisions processed, by outcome.",
		}, []string{"decision"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fina",
			Subsystem: "mockagent",
			Name:      "ingested_chunks_total",
			Help:      "Document chunks stored for retrieval.",
		}),
	}

	r.registry.MustRegister(
		r.streams,
		r.approvals,
		r.chunks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// StreamFinished counts one stream by its final status
func (r *Recorder) StreamFinished(status string) {
	if r == nil {
		return
	}
	r.streams.WithLabelValues(status).Inc()
}

// ApprovalProcessed counts one decision
func (r *Recorder) ApprovalProcessed(decision string) {
	if r == nil {
		return
	}
	r.approvals.WithLabelValues(decision).Inc()
}

// ChunksIngested adds n stored chunks
func (r *Recorder) ChunksIngested(n int) {
	if r == nil {
		return
	}
	r.chunks.Add(float64(n))
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
