// Package metrics holds the Prometheus collectors recorded during a search.
//
// Collectors live in a private registry so that a search can be measured
// without touching the global default registry. A one-shot process such as a
// workflow step exports them with WriteTextfile for a node-exporter textfile
// collector to pick up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
)

const namespace = "s3search"

// Metrics records search activity.
type Metrics struct {
	registry *prometheus.Registry

	pages      prometheus.Counter
	tagFetches *prometheus.CounterVec // By status: ok, error
	matches    prometheus.Counter
	searches   *prometheus.CounterVec // By result code, "ok" on success
	duration   prometheus.Histogram
}

// New creates and registers the search collectors in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_listed_total",
			Help:      "Total number of listing pages retrieved",
		}),

		tagFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_fetches_total",
			Help:      "Total number of object tag retrievals",
		}, []string{"status"}),

		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Total number of objects whose tags matched the criteria",
		}),

		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of completed searches",
		}, []string{"code"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}),
	}

	m.registry.MustRegister(m.pages, m.tagFetches, m.matches, m.searches, m.duration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePage counts one listing page.
func (m *Metrics) ObservePage() {
	m.pages.Inc()
}

// ObserveTagFetch counts one tag retrieval by outcome.
func (m *Metrics) ObserveTagFetch(err error) {
	if err != nil {
		m.tagFetches.WithLabelValues("error").Inc()
		return
	}
	m.tagFetches.WithLabelValues("ok").Inc()
}

// ObserveMatches adds n matched objects.
func (m *Metrics) ObserveMatches(n int) {
	m.matches.Add(float64(n))
}

// ObserveSearch records a finished search and its outcome.
func (m *Metrics) ObserveSearch(elapsed time.Duration, err error) {
	m.duration.Observe(elapsed.Seconds())

	code := "ok"
	if err != nil {
		code = string(s3errors.Code(err))
	}
	m.searches.WithLabelValues(code).Inc()
}

// WriteTextfile writes all collectors to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
