package utils

import (
	"time"

	"catalog-trends/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for a single analysis run. Each
// instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	LinesRead      prometheus.Counter
	RecordsSeen    prometheus.Counter
	DefaultedRanks prometheus.Counter
	DroppedRecords prometheus.Counter
	Duplicates     prometheus.Counter

	Products     prometheus.Gauge
	GraphNodes   prometheus.Gauge
	GraphEdges   prometheus.Gauge
	LoadDuration prometheus.Gauge

	QueryDuration *prometheus.HistogramVec
	QueryResults  *prometheus.GaugeVec
}

// NewMetrics creates and registers all collectors under namespace
func NewMetrics(namespace string) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		LinesRead:      counter("loader_lines_total", "Lines read from the catalog dump"),
		RecordsSeen:    counter("loader_records_total", "ASIN records encountered"),
		DefaultedRanks: counter("loader_defaulted_ranks_total", "Sales ranks that failed to parse"),
		DroppedRecords: counter("loader_dropped_records_total", "Incomplete records discarded"),
		Duplicates:     counter("loader_duplicate_records_total", "Records whose ASIN was already registered"),

		Products:     gauge("dataset_products", "Products in the registry"),
		GraphNodes:   gauge("dataset_graph_nodes", "Nodes in the relationship graph"),
		GraphEdges:   gauge("dataset_graph_edges", "Edges in the relationship graph"),
		LoadDuration: gauge("loader_duration_seconds", "Time spent loading the dump"),

		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Analyzer query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryResults: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "query_results",
				Help:      "Number of results returned by the last analyzer query",
			},
			[]string{"query"},
		),
	}

	m.registry.MustRegister(
		m.LinesRead, m.RecordsSeen, m.DefaultedRanks, m.DroppedRecords, m.Duplicates,
		m.Products, m.GraphNodes, m.GraphEdges, m.LoadDuration,
		m.QueryDuration, m.QueryResults,
	)
	return m
}

// ObserveLoad records the loader's counters
func (m *Metrics) ObserveLoad(stats models.LoadStats) {
	m.LinesRead.Add(float64(stats.Lines))
	m.RecordsSeen.Add(float64(stats.Records))
	m.DefaultedRanks.Add(float64(stats.DefaultedRanks))
	m.DroppedRecords.Add(float64(stats.Dropped))
	m.Duplicates.Add(float64(stats.Duplicates))
	m.Products.Set(float64(stats.Products))
	m.GraphNodes.Set(float64(stats.Nodes))
	m.GraphEdges.Set(float64(stats.Edges))
	m.LoadDuration.Set(stats.Duration.Seconds())
}

// ObserveQuery records how long an analyzer query took and how much it returned
func (m *Metrics) ObserveQuery(query string, took time.Duration, results int) {
	m.QueryDuration.WithLabelValues(query).Observe(took.Seconds())
	m.QueryResults.WithLabelValues(query).Set(float64(results))
}

// WriteTextfile dumps all metrics in the text exposition format, suitable for
// node_exporter's textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
