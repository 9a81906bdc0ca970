// Package metrics provides Prometheus metrics for weekly article runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weeklyarticles"

// Drop reasons reported by the indexer.
const (
	ReasonExtraction = "extraction_miss"
	ReasonDate       = "date_parse"
	ReasonFuture     = "future_date"
	ReasonLink       = "bad_link"
)

// Summary results.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "fetch_error"
)

// Metrics owns a private registry so batch runs can dump it to a textfile.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ArticlesIndexed *prometheus.CounterVec
	ArticlesDropped *prometheus.CounterVec
	FetchFailures   prometheus.Counter
	Summaries       *prometheus.CounterVec
	TopicDuration   prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ArticlesIndexed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_indexed_total",
				Help:      "Articles extracted from listing pages",
			},
			[]string{"publisher"},
		),
		ArticlesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_dropped_total",
				Help:      "Listing blocks dropped during indexing",
			},
			[]string{"reason"},
		),
		FetchFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Page navigations that failed",
			},
		),
		Summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summaries_total",
				Help:      "Article summaries by outcome",
			},
			[]string{"result"},
		),
		TopicDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "topic_duration_seconds",
				Help:      "Wall time of one topic run",
				Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordIndexed counts one extracted article.
func (m *Metrics) RecordIndexed(publisher string) {
	if m == nil {
		return
	}
	m.ArticlesIndexed.WithLabelValues(publisher).Inc()
}

// RecordDropped counts one dropped listing block.
func (m *Metrics) RecordDropped(reason string) {
	if m == nil {
		return
	}
	m.ArticlesDropped.WithLabelValues(reason).Inc()
}

// RecordFetchFailure counts one failed navigation.
func (m *Metrics) RecordFetchFailure() {
	if m == nil {
		return
	}
	m.FetchFailures.Inc()
}

// RecordSummary counts one article summary outcome.
func (m *Metrics) RecordSummary(result string) {
	if m == nil {
		return
	}
	m.Summaries.WithLabelValues(result).Inc()
}

// ObserveTopic records how long a topic run took.
func (m *Metrics) ObserveTopic(d time.Duration) {
	if m == nil {
		return
	}
	m.TopicDuration.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
