// Package observability records batch metrics for newsdesk runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all newsdesk metrics.
	MetricsNamespace = "newsdesk"
)

// Field states recorded by RecordFields.
const (
	StateFilled = "filled"
	StateAbsent = "absent"
)

// Metrics holds the counters of one batch run. Each run owns its registry so
// the textfile only carries the run's own series.
type Metrics struct {
	registry *prometheus.Registry

	ArticlesParsedTotal     *prometheus.CounterVec
	FetchFailuresTotal      *prometheus.CounterVec
	FieldsTotal             *prometheus.CounterVec
	DuplicatesFilteredTotal *prometheus.CounterVec
	ContentTotal            *prometheus.CounterVec
	SourceDurationSeconds   *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.initCrawlMetrics(factory)
	m.initPipelineMetrics(factory)

	return m
}

func (m *Metrics) initCrawlMetrics(factory promauto.Factory) {
	m.ArticlesParsedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "crawl",
			Name:      "articles_parsed_total",
			Help:      "Articles produced by listing parsing",
		},
		[]string{"source", "strategy"},
	)

	m.FetchFailuresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "crawl",
			Name:      "fetch_failures_total",
			Help:      "Failed page fetches by failure kind",
		},
		[]string{"source", "kind"},
	)

	m.FieldsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "crawl",
			Name:      "fields_total",
			Help:      "Article fields filled or absent after enrichment",
		},
		[]string{"source", "field", "state"},
	)

	m.SourceDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "crawl",
			Name:      "source_duration_seconds",
			Help:      "Duration of one source crawl in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4min
		},
		[]string{"source"},
	)
}

func (m *Metrics) initPipelineMetrics(factory promauto.Factory) {
	m.DuplicatesFilteredTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "dedup",
			Name:      "duplicates_filtered_total",
			Help:      "Articles removed because they were already delivered",
		},
		[]string{"source"},
	)

	m.ContentTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "content",
			Name:      "articles_total",
			Help:      "Article bodies by outcome",
		},
		[]string{"result"},
	)
}

// RecordParsed adds parsed articles for a source.
func (m *Metrics) RecordParsed(source, strategy string, n int) {
	m.ArticlesParsedTotal.WithLabelValues(source, strategy).Add(float64(n))
}

// RecordFetchFailure counts one failed fetch.
func (m *Metrics) RecordFetchFailure(source, kind string) {
	m.FetchFailuresTotal.WithLabelValues(source, kind).Inc()
}

// RecordFields records how many articles have a field set out of total.
func (m *Metrics) RecordFields(source, field string, filled, total int) {
	m.FieldsTotal.WithLabelValues(source, field, StateFilled).Add(float64(filled))
	m.FieldsTotal.WithLabelValues(source, field, StateAbsent).Add(float64(total - filled))
}

// RecordDuplicates counts articles removed by the duplicate index.
func (m *Metrics) RecordDuplicates(source string, n int) {
	m.DuplicatesFilteredTotal.WithLabelValues(source).Add(float64(n))
}

// RecordContent counts content extraction outcomes.
func (m *Metrics) RecordContent(saved, skipped, failed int) {
	m.ContentTotal.WithLabelValues("saved").Add(float64(saved))
	m.ContentTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.ContentTotal.WithLabelValues("failed").Add(float64(failed))
}

// ObserveSource records how long a source crawl took.
func (m *Metrics) ObserveSource(source string, seconds float64) {
	m.SourceDurationSeconds.WithLabelValues(source).Observe(seconds)
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the registry in the text exposition format. An empty
// path disables the write.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
