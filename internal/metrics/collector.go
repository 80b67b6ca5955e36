// Package metrics exposes Prometheus collectors for the HTTP surface, the
// generation pipeline and the provider.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/promptspec/api/internal/imagespec"
)

// OutcomeCompleted labels successful generations.
const OutcomeCompleted = "completed"

// Collector holds every metric the service records.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
}

// NewCollector registers the metrics on reg under namespace.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Generation requests by outcome and accepted engine",
			},
			[]string{"outcome", "engine"},
		),
		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Latency of provider completions",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"result"},
		),
	}
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, path string, status int, d time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveGeneration records the outcome of one pipeline run.
func (c *Collector) ObserveGeneration(outcome, engine string) {
	c.generationsTotal.WithLabelValues(outcome, engine).Inc()
}

// InstrumentProvider wraps p so every completion is timed.
func (c *Collector) InstrumentProvider(p imagespec.Provider) imagespec.Provider {
	return &instrumentedProvider{next: p, hist: c.providerDuration}
}

type instrumentedProvider struct {
	next imagespec.Provider
	hist *prometheus.HistogramVec
}

func (p *instrumentedProvider) Complete(ctx context.Context, req imagespec.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := p.next.Complete(ctx, req)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case text == "":
		result = "empty"
	}
	p.hist.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return text, err
}
